package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func mustCandle(t *testing.T, o, h, l, c, v string) Candle {
	t.Helper()
	candle, err := NewCandle(0,
		decimal.RequireFromString(o),
		decimal.RequireFromString(h),
		decimal.RequireFromString(l),
		decimal.RequireFromString(c),
		decimal.RequireFromString(v),
		H4, true)
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	return candle
}

func TestNewCandleValid(t *testing.T) {
	c := mustCandle(t, "100", "105", "98", "102", "1000")
	if c.CloseFloat() != 102 {
		t.Errorf("CloseFloat() = %v, want 102", c.CloseFloat())
	}
}

func TestNewCandleHighBelowBody(t *testing.T) {
	_, err := NewCandle(0,
		decimal.NewFromInt(100), decimal.NewFromInt(101),
		decimal.NewFromInt(98), decimal.NewFromInt(103),
		decimal.NewFromInt(10), H4, true)
	if !errors.Is(err, ErrConstruction) {
		t.Fatalf("expected ErrConstruction, got %v", err)
	}
}

func TestNewCandleLowAboveBody(t *testing.T) {
	_, err := NewCandle(0,
		decimal.NewFromInt(100), decimal.NewFromInt(110),
		decimal.NewFromInt(101), decimal.NewFromInt(103),
		decimal.NewFromInt(10), H4, true)
	if !errors.Is(err, ErrConstruction) {
		t.Fatalf("expected ErrConstruction, got %v", err)
	}
}

func TestNewCandleNegativeVolume(t *testing.T) {
	_, err := NewCandle(0,
		decimal.NewFromInt(100), decimal.NewFromInt(110),
		decimal.NewFromInt(95), decimal.NewFromInt(103),
		decimal.NewFromInt(-1), H4, true)
	if !errors.Is(err, ErrConstruction) {
		t.Fatalf("expected ErrConstruction, got %v", err)
	}
}

func TestConstructionErrorUnwrap(t *testing.T) {
	_, err := NewCandle(0,
		decimal.NewFromInt(100), decimal.NewFromInt(101),
		decimal.NewFromInt(98), decimal.NewFromInt(103),
		decimal.NewFromInt(10), H4, true)
	var ce *ConstructionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConstructionError, got %T", err)
	}
	if ce.Field != "high" {
		t.Errorf("Field = %q, want %q", ce.Field, "high")
	}
}
