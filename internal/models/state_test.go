package models

import (
	"testing"

	"github.com/ridopark/jonbu-wfo/internal/indicators"
)

func TestMarketStateUpdateRoutesByTimeframe(t *testing.T) {
	state := NewMarketState("BTCUSDT")

	h4 := candleAt(1, true)
	h4.Timeframe = H4
	state = state.Update(h4)

	m5 := candleAt(2, true)
	m5.Timeframe = M5
	state = state.Update(m5)

	if state.H4Series().Len() != 1 {
		t.Errorf("H4Series().Len() = %d, want 1", state.H4Series().Len())
	}
	if state.Series(M5).Len() != 1 {
		t.Errorf("Series(M5).Len() = %d, want 1", state.Series(M5).Len())
	}
	if state.Series(H4).Len() != 1 {
		t.Errorf("Series(H4).Len() = %d, want 1", state.Series(H4).Len())
	}
}

func TestMarketStateUpdateIsImmutable(t *testing.T) {
	s1 := NewMarketState("BTCUSDT")
	c := candleAt(1, true)
	c.Timeframe = H4
	s2 := s1.Update(c)

	if s1.H4Series().Len() != 0 {
		t.Errorf("original state mutated: H4Series().Len() = %d, want 0", s1.H4Series().Len())
	}
	if s2.H4Series().Len() != 1 {
		t.Errorf("H4Series().Len() = %d, want 1", s2.H4Series().Len())
	}
}

func TestMarketStateCurrentCloseEmpty(t *testing.T) {
	s := NewMarketState("BTCUSDT")
	if _, ok := s.CurrentClose(); ok {
		t.Error("CurrentClose() on empty state should return ok=false")
	}
}

func TestMarketStateCacheIsPerGeneration(t *testing.T) {
	s := NewMarketState("BTCUSDT")
	c := candleAt(1, true)
	c.Timeframe = H4
	s = s.Update(c)

	rsi1 := s.RSI()
	rsi2 := s.RSI()
	if rsi1 != rsi2 {
		t.Errorf("RSI() not stable across repeated reads of same generation: %v != %v", rsi1, rsi2)
	}
	if rsi1 != indicators.RSINeutral {
		t.Errorf("RSI() with insufficient history = %v, want neutral %v", rsi1, indicators.RSINeutral)
	}

	next := candleAt(2, true)
	next.Timeframe = H4
	s2 := s.Update(next)
	if s2.H4Series().Len() != 2 {
		t.Fatalf("expected new generation to carry forward prior candles")
	}
}
