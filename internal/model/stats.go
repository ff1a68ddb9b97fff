package model

// RateStats describes the distribution of annualized window rates.
type RateStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// RunStats holds descriptive figures reported next to the summary.
type RunStats struct {
	CategoryCounts map[Category]int `json:"category_counts"`
	Rates          RateStats        `json:"rates"`
	MaxDrawdown    float64          `json:"max_drawdown"` // 0.0 ~ 1.0, on cash + portfolio value
	BuyCount       int              `json:"buy_count"`
	SellCount      int              `json:"sell_count"`
}
