package errors

import (
	"errors"
	"fmt"
	"strings"
)

// DataGapError reports a (symbol, field) series that had no observation at all
// after forward and backward filling, so every session was set to the fallback value.
// It is recoverable and is recorded as a warning rather than returned as a failure.
type DataGapError struct {
	Symbol   string
	Field    string
	Sessions int
	Fallback float64
}

// Error implements the error interface.
func (e *DataGapError) Error() string {
	return fmt.Sprintf("no %s data for %s: %d sessions filled with %v", e.Field, e.Symbol, e.Sessions, e.Fallback)
}

// ErrorCode returns ErrCodeDataGap.
func (e *DataGapError) ErrorCode() ErrorCode {
	return ErrCodeDataGap
}

// UnknownSymbolError reports order symbols outside the known universe.
// The orders are dropped and the run continues.
type UnknownSymbolError struct {
	Symbols []string
	Orders  int
}

// Error implements the error interface.
func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("dropped %d orders with unknown symbols: %s", e.Orders, strings.Join(e.Symbols, ", "))
}

// ErrorCode returns ErrCodeUnknownSymbol.
func (e *UnknownSymbolError) ErrorCode() ErrorCode {
	return ErrCodeUnknownSymbol
}

// MalformedOrderError reports an order row that could not be parsed.
// Line is 1-based.
type MalformedOrderError struct {
	Line   int
	Record []string
	Reason string
}

// Error implements the error interface.
func (e *MalformedOrderError) Error() string {
	return fmt.Sprintf("malformed order at line %d (%s): %s", e.Line, strings.Join(e.Record, ","), e.Reason)
}

// ErrorCode returns ErrCodeMalformedOrder.
func (e *MalformedOrderError) ErrorCode() ErrorCode {
	return ErrCodeMalformedOrder
}

// DegenerateSeriesError reports a return series whose statistics are undefined,
// for example a zero volatility series.
type DegenerateSeriesError struct {
	Reason string
}

// Error implements the error interface.
func (e *DegenerateSeriesError) Error() string {
	return "degenerate series: " + e.Reason
}

// ErrorCode returns ErrCodeDegenerateSeries.
func (e *DegenerateSeriesError) ErrorCode() ErrorCode {
	return ErrCodeDegenerateSeries
}

// StrategyNotFoundError reports an event strategy name missing from a registry.
type StrategyNotFoundError struct {
	Name      string
	Available []string
}

// Error implements the error interface.
func (e *StrategyNotFoundError) Error() string {
	return fmt.Sprintf("event strategy %q not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// ErrorCode returns ErrCodeStrategyNotFound.
func (e *StrategyNotFoundError) ErrorCode() ErrorCode {
	return ErrCodeStrategyNotFound
}

// IsDataGapError checks the error chain for a DataGapError.
func IsDataGapError(err error) bool {
	var target *DataGapError

	return errors.As(err, &target)
}

// IsUnknownSymbolError checks the error chain for an UnknownSymbolError.
func IsUnknownSymbolError(err error) bool {
	var target *UnknownSymbolError

	return errors.As(err, &target)
}

// IsMalformedOrderError checks the error chain for a MalformedOrderError.
// Errors combined with multierr are inspected as well.
func IsMalformedOrderError(err error) bool {
	var target *MalformedOrderError

	return errors.As(err, &target)
}

// IsDegenerateSeriesError checks the error chain for a DegenerateSeriesError.
func IsDegenerateSeriesError(err error) bool {
	var target *DegenerateSeriesError

	return errors.As(err, &target)
}

// IsStrategyNotFoundError checks the error chain for a StrategyNotFoundError.
func IsStrategyNotFoundError(err error) bool {
	var target *StrategyNotFoundError

	return errors.As(err, &target)
}
