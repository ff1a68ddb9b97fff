package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"CagrSentinel/internal/backtest"
	"CagrSentinel/internal/model"
)

// paramsFromForm overlays the submitted form fields on the defaults.
// Missing or blank fields keep their default value.
func paramsFromForm(r *http.Request, def backtest.Params) (backtest.Params, error) {
	p := def
	var err error

	if p.HoldingPeriod, err = formInt(r, "holding_period", p.HoldingPeriod); err != nil {
		return p, err
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"capital", &p.StartingCapital},
		{"cutoff_extreme_bearish", &p.Thresholds.ExtremeBearish},
		{"cutoff_bearish", &p.Thresholds.Bearish},
		{"cutoff_sideways_bearish", &p.Thresholds.SidewaysBearish},
		{"cutoff_neutral", &p.Thresholds.Neutral},
		{"cutoff_bullish", &p.Thresholds.Bullish},
		{"units_extreme_bearish", &p.Sizing.ExtremeBearish},
		{"units_bearish", &p.Sizing.Bearish},
		{"units_sideways_bearish", &p.Sizing.SidewaysBearish},
		{"exit_units_bullish", &p.Sizing.Bullish},
		{"exit_units_extreme_bullish", &p.Sizing.ExtremeBullish},
	}
	for _, f := range floats {
		if *f.dst, err = formFloat(r, f.key, *f.dst); err != nil {
			return p, err
		}
	}
	return p, nil
}

func formFloat(r *http.Request, key string, def float64) (float64, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not a number", model.ErrInvalidInput, key, v)
	}
	return f, nil
}

func formInt(r *http.Request, key string, def int) (int, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not an integer", model.ErrInvalidInput, key, v)
	}
	return n, nil
}
