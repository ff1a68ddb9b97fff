package model

import "time"

// PricePoint is a single daily close observation.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries holds an ordered close series with the name of its source.
type PriceSeries struct {
	Source string
	Points []PricePoint
}
