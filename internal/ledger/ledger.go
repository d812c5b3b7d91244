// Package ledger reads, normalizes and writes order ledgers.
package ledger

import (
	"slices"
	"sort"

	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// Ledger is an immutable sequence of orders sorted by session. Orders on the
// same session keep their input order.
type Ledger struct {
	orders []types.Order
}

// New returns a ledger holding a sorted copy of orders.
func New(orders []types.Order) *Ledger {
	sorted := append([]types.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Session.Before(sorted[j].Session)
	})

	return &Ledger{orders: sorted}
}

// FromRaw signs raw records and returns them as a ledger.
func FromRaw(records []types.RawOrder) *Ledger {
	orders := make([]types.Order, len(records))
	for i, r := range records {
		orders[i] = r.Signed()
	}

	return New(orders)
}

// Len returns the number of orders.
func (l *Ledger) Len() int {
	return len(l.orders)
}

// IsEmpty reports whether the ledger has no orders.
func (l *Ledger) IsEmpty() bool {
	return len(l.orders) == 0
}

// At returns the i-th order.
func (l *Ledger) At(i int) types.Order {
	return l.orders[i]
}

// Orders returns a copy of the orders.
func (l *Ledger) Orders() []types.Order {
	return append([]types.Order(nil), l.orders...)
}

// Symbols returns the distinct symbols traded, sorted.
func (l *Ledger) Symbols() []string {
	seen := map[string]bool{}

	var symbols []string

	for _, o := range l.orders {
		if !seen[o.Symbol] {
			seen[o.Symbol] = true
			symbols = append(symbols, o.Symbol)
		}
	}

	sort.Strings(symbols)

	return symbols
}

// Span returns the sessions of the first and last orders.
func (l *Ledger) Span() (types.Session, types.Session, error) {
	if len(l.orders) == 0 {
		return types.Session{}, types.Session{}, errors.New(errors.ErrCodeEmptyLedger, "ledger has no orders")
	}

	return l.orders[0].Session, l.orders[len(l.orders)-1].Session, nil
}

// Raw returns the orders as file records.
func (l *Ledger) Raw() []types.RawOrder {
	records := make([]types.RawOrder, len(l.orders))
	for i, o := range l.orders {
		records[i] = o.Raw()
	}

	return records
}

// FilterKnown drops orders whose symbol is not in known. The returned warning is
// nil when nothing was dropped.
func (l *Ledger) FilterKnown(known []string) (*Ledger, *errors.UnknownSymbolError) {
	universe := make(map[string]bool, len(known))
	for _, s := range known {
		universe[s] = true
	}

	kept := make([]types.Order, 0, len(l.orders))

	var unknown []string

	dropped := 0

	for _, o := range l.orders {
		if universe[o.Symbol] {
			kept = append(kept, o)

			continue
		}

		dropped++

		if !slices.Contains(unknown, o.Symbol) {
			unknown = append(unknown, o.Symbol)
		}
	}

	if dropped == 0 {
		return l, nil
	}

	sort.Strings(unknown)

	return &Ledger{orders: kept}, &errors.UnknownSymbolError{Symbols: unknown, Orders: dropped}
}
