package fund

import "CagrSentinel/internal/model"

func newState(capital float64) *model.SimulationState {
	return &model.SimulationState{Cash: capital}
}

// buyUnits picks the order size for a bearish regime. Nothing is bought
// when the category is not bearish or cash cannot cover the whole order.
func buyUnits(st *model.SimulationState, cat model.Category, price float64, sz model.UnitSizing) float64 {
	switch {
	case cat == model.ExtremeBearish && st.Cash >= sz.ExtremeBearish*price:
		return sz.ExtremeBearish
	case cat == model.Bearish && st.Cash >= sz.Bearish*price:
		return sz.Bearish
	case cat == model.SidewaysBearish && st.Cash >= sz.SidewaysBearish*price:
		return sz.SidewaysBearish
	default:
		return 0
	}
}

// sellUnits picks the exit size for a bullish regime. A sell larger than the
// held position is skipped, never partially filled.
func sellUnits(st *model.SimulationState, cat model.Category, sz model.UnitSizing) float64 {
	switch {
	case cat == model.ExtremeBullish && st.TotalUnits >= sz.ExtremeBullish:
		return sz.ExtremeBullish
	case cat == model.Bullish && st.TotalUnits >= sz.Bullish:
		return sz.Bullish
	default:
		return 0
	}
}

// step applies one classified record: buy first, then sell, then revalue.
func step(st *model.SimulationState, rec model.ClassifiedRecord, sz model.UnitSizing) model.LedgerRow {
	price := rec.EntryClose

	buy := buyUnits(st, rec.Category, price, sz)
	st.Invested += buy * price
	st.Cash -= buy * price

	sell := sellUnits(st, rec.Category, sz)
	st.Withdrawn += sell * price
	st.Cash += sell * price

	st.TotalUnits += buy - sell

	return model.LedgerRow{
		Date:           rec.EntryDate,
		Category:       rec.Category,
		ClosePrice:     price,
		UnitsBought:    buy,
		UnitsSold:      sell,
		TotalUnitsHeld: st.TotalUnits,
		PortfolioValue: st.TotalUnits * price,
		TotalInvested:  st.Invested,
		TotalWithdrawn: st.Withdrawn,
		RemainingCash:  st.Cash,
	}
}
