package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Arbitrage-specific error codes
const (
	// Solana RPC errors
	CodeSolanaConnectionFailed Code = "SOLANA_CONNECTION_FAILED"
	CodeSolanaRPCError         Code = "SOLANA_RPC_ERROR"
	CodeAccountNotFound        Code = "ACCOUNT_NOT_FOUND"
	CodeBlockhashFetchFailed   Code = "BLOCKHASH_FETCH_FAILED"

	// WebSocket errors
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketReconnecting    Code = "WEBSOCKET_RECONNECTING"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"
	CodeWebSocketSendError       Code = "WEBSOCKET_SEND_ERROR"

	// Venue feed errors
	CodeFeedSubscribeFailed Code = "FEED_SUBSCRIBE_FAILED"
	CodeEventDecodeFailed   Code = "EVENT_DECODE_FAILED"
	CodeFeedStale           Code = "FEED_STALE"

	// Pool quote errors
	CodePoolQuoteFailed  Code = "POOL_QUOTE_FAILED"
	CodePoolNotFound     Code = "POOL_NOT_FOUND"
	CodeInvalidPoolState Code = "INVALID_POOL_STATE"

	// Arbitrage detection errors
	CodePriceCalculationFailed Code = "PRICE_CALCULATION_FAILED"
	CodeDivergenceCalcError    Code = "DIVERGENCE_CALCULATION_ERROR"
	CodeInvalidTradeSize       Code = "INVALID_TRADE_SIZE"

	// Trade execution errors
	CodeTradeSubmitFailed Code = "TRADE_SUBMIT_FAILED"
	CodeTradeRejected     Code = "TRADE_REJECTED"
	CodeExecutionLocked   Code = "EXECUTION_LOCKED"

	// Cache errors
	CodeCacheMiss             Code = "CACHE_MISS"
	CodeCacheExpired          Code = "CACHE_EXPIRED"
	CodeCacheConnectionFailed Code = "CACHE_CONNECTION_FAILED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
