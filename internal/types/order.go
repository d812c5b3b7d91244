package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// Direction is the side of a raw order record.
type Direction string

const (
	DirectionBuy  Direction = "Buy"
	DirectionSell Direction = "Sell"
)

// ParseDirection converts "Buy" or "Sell" (any case) into a Direction.
func ParseDirection(value string) (Direction, bool) {
	switch {
	case strings.EqualFold(value, string(DirectionBuy)):
		return DirectionBuy, true
	case strings.EqualFold(value, string(DirectionSell)):
		return DirectionSell, true
	default:
		return "", false
	}
}

// Sign returns +1 for Buy and -1 for Sell.
func (d Direction) Sign() float64 {
	if d == DirectionSell {
		return -1
	}

	return 1
}

// RawOrder is an order record as it appears in an order file, before normalization.
type RawOrder struct {
	Year      int       `csv:"year" validate:"required"`
	Month     int       `csv:"month" validate:"required,min=1,max=12"`
	Day       int       `csv:"day" validate:"required,min=1,max=31"`
	Symbol    string    `csv:"symbol" validate:"required"`
	Direction Direction `csv:"direction" validate:"required,oneof=Buy Sell"`
	Amount    float64   `csv:"amount" validate:"gte=0"`
}

// orderValidator is shared by every RawOrder so its struct cache survives across rows.
var orderValidator = validator.New()

// Validate validates the RawOrder struct.
func (r *RawOrder) Validate() error {
	if err := orderValidator.Struct(r); err != nil {
		return errors.Wrap(errors.ErrCodeMalformedOrder, "invalid raw order", err)
	}

	if !ValidDate(r.Year, r.Month, r.Day) {
		return errors.Newf(errors.ErrCodeMalformedOrder, "invalid date %04d-%02d-%02d", r.Year, r.Month, r.Day)
	}

	return nil
}

// Session returns the session the order was placed on.
func (r RawOrder) Session() Session {
	return Session{Year: r.Year, Month: time.Month(r.Month), Day: r.Day}
}

// Signed converts the raw record into an Order with a signed quantity.
func (r RawOrder) Signed() Order {
	return Order{
		Session:  r.Session(),
		Symbol:   r.Symbol,
		Quantity: r.Direction.Sign() * r.Amount,
	}
}

// Order is a normalized order: a signed share quantity for a symbol on a session.
// Positive quantities buy, negative quantities sell.
type Order struct {
	Session  Session `yaml:"session" json:"session"`
	Symbol   string  `yaml:"symbol" json:"symbol"`
	Quantity float64 `yaml:"quantity" json:"quantity"`
}

// Direction returns Buy for non-negative quantities and Sell otherwise.
func (o Order) Direction() Direction {
	if o.Quantity < 0 {
		return DirectionSell
	}

	return DirectionBuy
}

// Amount returns the unsigned share count.
func (o Order) Amount() float64 {
	if o.Quantity < 0 {
		return -o.Quantity
	}

	return o.Quantity
}

// Raw converts the order back into its file record.
func (o Order) Raw() RawOrder {
	return RawOrder{
		Year:      o.Session.Year,
		Month:     int(o.Session.Month),
		Day:       o.Session.Day,
		Symbol:    o.Symbol,
		Direction: o.Direction(),
		Amount:    o.Amount(),
	}
}
