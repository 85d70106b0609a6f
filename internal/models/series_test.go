package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func candleAt(ts int64, complete bool) Candle {
	return Candle{
		TimestampMs: ts,
		Open:        decimal.NewFromInt(100),
		High:        decimal.NewFromInt(101),
		Low:         decimal.NewFromInt(99),
		Close:       decimal.RequireFromString("100.5"),
		Volume:      decimal.NewFromInt(10),
		Timeframe:   H4,
		Complete:    complete,
	}
}

func TestMarketSeriesAddImmutable(t *testing.T) {
	s1 := NewMarketSeries(nil)
	s2 := s1.Add(candleAt(1, true))

	if s1.Len() != 0 {
		t.Errorf("original series mutated: Len() = %d, want 0", s1.Len())
	}
	if s2.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s2.Len())
	}
}

func TestMarketSeriesCurrentEmpty(t *testing.T) {
	s := NewMarketSeries(nil)
	if _, ok := s.Current(); ok {
		t.Error("Current() on empty series should return ok=false")
	}
}

func TestMarketSeriesLastClosed(t *testing.T) {
	s := NewMarketSeries(nil)
	s = s.Add(candleAt(1, true))
	s = s.Add(candleAt(2, false))

	closed, ok := s.LastClosed()
	if !ok {
		t.Fatal("expected a closed candle")
	}
	if closed.TimestampMs != 1 {
		t.Errorf("LastClosed().TimestampMs = %d, want 1", closed.TimestampMs)
	}
}

func TestMarketSeriesTail(t *testing.T) {
	s := NewMarketSeries(nil)
	for i := int64(0); i < 5; i++ {
		s = s.Add(candleAt(i, true))
	}

	tail := s.Tail(2)
	if len(tail) != 2 {
		t.Fatalf("Tail(2) length = %d, want 2", len(tail))
	}
	if tail[0].TimestampMs != 3 || tail[1].TimestampMs != 4 {
		t.Errorf("Tail(2) = %+v, want timestamps [3 4]", tail)
	}

	full := s.Tail(100)
	if len(full) != 5 {
		t.Errorf("Tail(100) length = %d, want 5", len(full))
	}
}
