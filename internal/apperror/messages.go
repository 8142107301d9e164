package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Solana RPC errors
	CodeSolanaConnectionFailed: "Failed to connect to Solana node",
	CodeSolanaRPCError:         "Solana RPC call failed",
	CodeAccountNotFound:        "Account not found",
	CodeBlockhashFetchFailed:   "Failed to fetch latest blockhash",

	// WebSocket errors
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketReconnecting:    "WebSocket reconnecting",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",

	// Venue feed errors
	CodeFeedSubscribeFailed: "Failed to subscribe to venue feed",
	CodeEventDecodeFailed:   "Failed to decode venue event",
	CodeFeedStale:           "Venue feed is stale",

	// Pool quote errors
	CodePoolQuoteFailed:  "Failed to fetch pool quote",
	CodePoolNotFound:     "Pool not found",
	CodeInvalidPoolState: "Invalid pool state data",

	// Arbitrage detection errors
	CodePriceCalculationFailed: "Price calculation failed",
	CodeDivergenceCalcError:    "Divergence calculation error",
	CodeInvalidTradeSize:       "Invalid trade size",

	// Trade execution errors
	CodeTradeSubmitFailed: "Failed to submit trade transaction",
	CodeTradeRejected:     "Trade rejected by venue program",
	CodeExecutionLocked:   "Asset already has a trade in flight",

	// Cache errors
	CodeCacheMiss:             "Cache miss",
	CodeCacheExpired:          "Cache entry expired",
	CodeCacheConnectionFailed: "Failed to connect to cache backend",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
