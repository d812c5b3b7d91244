package types

import (
	"fmt"
)

// PriceField names one column of a price panel.
type PriceField string

const (
	FieldOpen        PriceField = "open"
	FieldHigh        PriceField = "high"
	FieldLow         PriceField = "low"
	FieldClose       PriceField = "close"
	FieldVolume      PriceField = "volume"
	FieldActualClose PriceField = "actual_close"
)

// AllPriceFields lists every price field in panel order.
var AllPriceFields = []PriceField{
	FieldOpen,
	FieldHigh,
	FieldLow,
	FieldClose,
	FieldVolume,
	FieldActualClose,
}

// ParsePriceField converts a field name into a PriceField.
func ParsePriceField(name string) (PriceField, error) {
	for _, field := range AllPriceFields {
		if string(field) == name {
			return field, nil
		}
	}

	return "", fmt.Errorf("unknown price field %q", name)
}

// Bar is one daily observation of a symbol. Close is the adjusted close and
// ActualClose the traded close.
type Bar struct {
	Session     Session `yaml:"session" json:"session"`
	Symbol      string  `yaml:"symbol" json:"symbol"`
	Open        float64 `yaml:"open" json:"open"`
	High        float64 `yaml:"high" json:"high"`
	Low         float64 `yaml:"low" json:"low"`
	Close       float64 `yaml:"close" json:"close"`
	Volume      float64 `yaml:"volume" json:"volume"`
	ActualClose float64 `yaml:"actual_close" json:"actual_close"`
}

// Value returns the bar's value for field.
func (b Bar) Value(field PriceField) (float64, bool) {
	switch field {
	case FieldOpen:
		return b.Open, true
	case FieldHigh:
		return b.High, true
	case FieldLow:
		return b.Low, true
	case FieldClose:
		return b.Close, true
	case FieldVolume:
		return b.Volume, true
	case FieldActualClose:
		return b.ActualClose, true
	default:
		return 0, false
	}
}
