package scrape

import (
	"maps"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// PriceCell holds the latest pushed price per instrument name. One writer
// (the feed receiver) swaps in a fresh map on every update; readers get an
// immutable snapshot.
type PriceCell struct {
	prices    atomic.Pointer[map[string]decimal.NullDecimal]
	connected atomic.Bool
}

func NewPriceCell() *PriceCell {
	c := &PriceCell{}
	empty := map[string]decimal.NullDecimal{}
	c.prices.Store(&empty)
	return c
}

func (c *PriceCell) Set(name string, price decimal.NullDecimal) {
	next := maps.Clone(*c.prices.Load())
	next[name] = price
	c.prices.Store(&next)
}

// Snapshot must not be modified by the caller.
func (c *PriceCell) Snapshot() map[string]decimal.NullDecimal {
	return *c.prices.Load()
}

func (c *PriceCell) SetConnected(v bool) {
	c.connected.Store(v)
}

func (c *PriceCell) Connected() bool {
	return c.connected.Load()
}
