package scrape

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"indexbot/internal/model"

	"github.com/shopspring/decimal"
)

// Capability is the set of enabled quote strategies. Bit order is the order
// in which Prices tries them.
type Capability uint16

const (
	CapBatch Capability = 1 << iota
	CapExchange
	CapSearch
	CapFeed
	CapNSE
	CapYahoo
	CapCrawl
	CapAlpaca
)

const brokerCaps = CapBatch | CapExchange | CapSearch | CapFeed

var capNames = []struct {
	cap  Capability
	name string
}{
	{CapBatch, "batch"},
	{CapExchange, "exchange"},
	{CapSearch, "search"},
	{CapFeed, "feed"},
	{CapNSE, "nse"},
	{CapYahoo, "yahoo"},
	{CapCrawl, "crawl"},
	{CapAlpaca, "alpaca"},
}

func ParseCapabilities(names []string) (Capability, error) {

	var c Capability
	for _, n := range names {
		found := false
		for _, cn := range capNames {
			if strings.EqualFold(strings.TrimSpace(n), cn.name) {
				c |= cn.cap
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: %q", ErrUnknownSource, n)
		}
	}
	return c, nil
}

func (c Capability) Has(x Capability) bool {
	return c&x == x
}

// NeedsSession reports whether any broker strategy is enabled.
func (c Capability) NeedsSession() bool {
	return c&brokerCaps != 0
}

// Each yields the enabled strategies in priority order.
func (c Capability) Each() iter.Seq[Capability] {
	return func(yield func(Capability) bool) {
		for _, cn := range capNames {
			if c.Has(cn.cap) && !yield(cn.cap) {
				return
			}
		}
	}
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	parts := make([]string, 0, len(capNames))
	for _, cn := range capNames {
		if c.Has(cn.cap) {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, ",")
}

// Outcome is what one strategy produced. An Outcome with a Reason is
// unavailable and its Prices are ignored.
type Outcome struct {
	Source string
	Prices map[string]decimal.NullDecimal
	Reason string
}

func Ok(source string, prices map[string]decimal.NullDecimal) Outcome {
	return Outcome{Source: source, Prices: prices}
}

func Unavailable(source string, reason string) Outcome {
	return Outcome{Source: source, Reason: reason}
}

// Usable is true when at least one price is present. Zero counts as present.
func (o Outcome) Usable() bool {
	if o.Reason != "" {
		return false
	}
	for _, p := range o.Prices {
		if p.Valid {
			return true
		}
	}
	return false
}

// Quotes lays the outcome over the instrument list. Every instrument gets a
// quote stamped with at, priced or not.
func (o Outcome) Quotes(instruments []model.Instrument, at time.Time) []model.Quote {

	rtn := make([]model.Quote, 0, len(instruments))
	for _, inst := range instruments {
		q := model.Quote{
			Name: inst.Name,
			Kind: inst.Kind,
			At:   at,
		}
		if o.Reason == "" {
			q.Price = o.Prices[inst.Name]
		}
		rtn = append(rtn, q)
	}
	return rtn
}

func priceOf(f float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(f))
}
