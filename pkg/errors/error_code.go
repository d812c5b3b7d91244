package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMissingParameter     ErrorCode = 102
	ErrCodeInvalidHoldingPeriod ErrorCode = 103
	ErrCodeInvalidShareCount    ErrorCode = 104
	ErrCodeInvalidWeights       ErrorCode = 105

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeDataGap               ErrorCode = 203
	ErrCodeFieldNotLoaded        ErrorCode = 204
	ErrCodeSymbolNotInPanel      ErrorCode = 205
	ErrCodeListNotFound          ErrorCode = 206

	// Calendar errors (300-399)
	ErrCodeInvalidCalendar    ErrorCode = 300
	ErrCodeCalendarMismatch   ErrorCode = 301
	ErrCodeSessionNotInWindow ErrorCode = 302
	ErrCodeInvalidSession     ErrorCode = 303

	// Order ledger errors (400-499)
	ErrCodeMalformedOrder ErrorCode = 400
	ErrCodeUnknownSymbol  ErrorCode = 401
	ErrCodeEmptyLedger    ErrorCode = 402
	ErrCodeOrderWriteFail ErrorCode = 403

	// Analysis errors (500-599)
	ErrCodeDegenerateSeries ErrorCode = 500
	ErrCodeInvalidSeries    ErrorCode = 501

	// Event errors (600-699)
	ErrCodeStrategyNotFound      ErrorCode = 600
	ErrCodeStrategyAlreadyExists ErrorCode = 601
	ErrCodeScanFailed            ErrorCode = 602

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidProvider       ErrorCode = 703

	// Run artifact errors (800-899)
	ErrCodeResultWriteFailed ErrorCode = 800
	ErrCodeResultReadFailed  ErrorCode = 801
)
