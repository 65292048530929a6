package errors

// ErrorCode identifies a category of application error
type ErrorCode int

const (
	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1005
	ErrorCode_FORBIDDEN        ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1007
	ErrorCode_HTTP_OK          ErrorCode = 200

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN       ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED       ErrorCode = 2001
	ErrorCode_AUTH_INVALID_CREDENTIALS ErrorCode = 2002
	ErrorCode_AUTH_USER_NOT_FOUND      ErrorCode = 2003
	ErrorCode_AUTH_USER_ALREADY_EXISTS ErrorCode = 2004
	ErrorCode_AUTH_ACCOUNT_DISABLED    ErrorCode = 2005

	// Calls and customers
	ErrorCode_CALL_NOT_FOUND      ErrorCode = 3000
	ErrorCode_CALL_AUDIO_MISSING  ErrorCode = 3001
	ErrorCode_CALL_UPLOAD_FAILED  ErrorCode = 3002
	ErrorCode_CALL_INVALID_STATE  ErrorCode = 3003
	ErrorCode_CUSTOMER_NOT_FOUND  ErrorCode = 3004

	// AI processing
	ErrorCode_AI_TRANSCRIPTION_FAILED ErrorCode = 4000
	ErrorCode_AI_SUMMARY_FAILED       ErrorCode = 4001
	ErrorCode_AI_CHAT_FAILED          ErrorCode = 4002
	ErrorCode_AI_NOT_CONFIGURED       ErrorCode = 4003
	ErrorCode_TRANSCRIPT_NOT_FOUND    ErrorCode = 4004

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 5001
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 5002

	// Database
	ErrorCode_DB_CONNECTION_FAILED   ErrorCode = 6000
	ErrorCode_DB_QUERY_FAILED        ErrorCode = 6001
	ErrorCode_DB_CONSTRAINT_VIOLATION ErrorCode = 6002
)

var codeNames = map[ErrorCode]string{
	ErrorCode_INTERNAL:          "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:  "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:         "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:    "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED: "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:   "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:         "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:   "INVALID_PAYLOAD",
	ErrorCode_HTTP_OK:           "OK",

	ErrorCode_AUTH_INVALID_TOKEN:       "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:       "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_INVALID_CREDENTIALS: "AUTH_INVALID_CREDENTIALS",
	ErrorCode_AUTH_USER_NOT_FOUND:      "AUTH_USER_NOT_FOUND",
	ErrorCode_AUTH_USER_ALREADY_EXISTS: "AUTH_USER_ALREADY_EXISTS",
	ErrorCode_AUTH_ACCOUNT_DISABLED:    "AUTH_ACCOUNT_DISABLED",

	ErrorCode_CALL_NOT_FOUND:     "CALL_NOT_FOUND",
	ErrorCode_CALL_AUDIO_MISSING: "CALL_AUDIO_MISSING",
	ErrorCode_CALL_UPLOAD_FAILED: "CALL_UPLOAD_FAILED",
	ErrorCode_CALL_INVALID_STATE: "CALL_INVALID_STATE",
	ErrorCode_CUSTOMER_NOT_FOUND: "CUSTOMER_NOT_FOUND",

	ErrorCode_AI_TRANSCRIPTION_FAILED: "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_SUMMARY_FAILED:       "AI_SUMMARY_FAILED",
	ErrorCode_AI_CHAT_FAILED:          "AI_CHAT_FAILED",
	ErrorCode_AI_NOT_CONFIGURED:       "AI_NOT_CONFIGURED",
	ErrorCode_TRANSCRIPT_NOT_FOUND:    "TRANSCRIPT_NOT_FOUND",

	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",

	ErrorCode_DB_CONNECTION_FAILED:    "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:         "DB_QUERY_FAILED",
	ErrorCode_DB_CONSTRAINT_VIOLATION: "DB_CONSTRAINT_VIOLATION",
}

// String returns the symbolic name of the error code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
