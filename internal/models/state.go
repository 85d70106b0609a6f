package models

import "github.com/ridopark/jonbu-wfo/internal/indicators"

// MarketState aggregates one MarketSeries per supported timeframe plus a
// symbol. It carries a lazy memoization slot for derived indicators: the
// cache is keyed on "series identity as of last Update": every Update call
// routes the candle to the matching timeframe series and returns a brand
// new MarketState with an empty cache.
type MarketState struct {
	Symbol string

	m5  MarketSeries
	m15 MarketSeries
	h1  MarketSeries
	h4  MarketSeries

	cache *indicators.Cache
}

// NewMarketState builds an empty MarketState for symbol.
func NewMarketState(symbol string) MarketState {
	return MarketState{
		Symbol: symbol,
		cache:  &indicators.Cache{},
	}
}

// Update routes candle to the series matching its timeframe and returns a
// new MarketState. The receiver is left unchanged.
func (s MarketState) Update(candle Candle) MarketState {
	next := s
	next.cache = &indicators.Cache{}

	switch candle.Timeframe {
	case M5:
		next.m5 = s.m5.Add(candle)
	case M15:
		next.m15 = s.m15.Add(candle)
	case H1:
		next.h1 = s.h1.Add(candle)
	case H4:
		next.h4 = s.h4.Add(candle)
	}

	return next
}

// Series returns the series for a given timeframe.
func (s MarketState) Series(tf Timeframe) MarketSeries {
	switch tf {
	case M5:
		return s.m5
	case M15:
		return s.m15
	case H1:
		return s.h1
	case H4:
		return s.h4
	}
	return MarketSeries{}
}

// H4Series returns the H4 series, the primary series driving indicators and
// regime classification.
func (s MarketState) H4Series() MarketSeries {
	return s.h4
}

func (s MarketState) snapshot() indicators.Snapshot {
	h4 := s.h4.Slice()
	highs := make([]float64, len(h4))
	lows := make([]float64, len(h4))
	closes := make([]float64, len(h4))
	volumes := make([]float64, len(h4))
	for i, c := range h4 {
		highs[i] = c.HighFloat()
		lows[i] = c.LowFloat()
		closes[i] = c.CloseFloat()
		volumes[i] = c.VolumeFloat()
	}
	return s.cache.Get(highs, lows, closes, volumes)
}

// RSI returns the memoized 14-period RSI over the H4 series.
func (s MarketState) RSI() float64 {
	return s.snapshot().RSI
}

// ATR returns the memoized 14-period ATR over the H4 series.
func (s MarketState) ATR() float64 {
	return s.snapshot().ATR
}

// ATRAvg14 returns the mean of the last 14 ATR values.
func (s MarketState) ATRAvg14() float64 {
	return s.snapshot().ATRAvg14
}

// ADX returns the memoized current 14-period ADX scalar.
func (s MarketState) ADX() float64 {
	return s.snapshot().ADX
}

// EMAAlignment compares EMA-20 to EMA-50 on the H4 series.
func (s MarketState) EMAAlignment() indicators.EMAAlignment {
	return s.snapshot().EMAAlignment
}

// CurrentClose returns the close of the most recent H4 candle, and false if
// the H4 series is empty.
func (s MarketState) CurrentClose() (float64, bool) {
	c, ok := s.h4.Current()
	if !ok {
		return 0, false
	}
	return c.CloseFloat(), true
}
