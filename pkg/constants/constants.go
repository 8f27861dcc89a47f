package constants

type ContextKey string

const (
	AppKey       ContextKey = "app"
	LoggerKey    ContextKey = "logger"
	RequestStart ContextKey = "requestStart"
	ParamsKey    ContextKey = "params"
	SessionKey   ContextKey = "session"
	PoolKey      ContextKey = "pool"
	TxKey        ContextKey = "tx"
	LocalizerKey ContextKey = "localizer"
	LocaleKey    ContextKey = "locale"
	RequestIDKey ContextKey = "requestID"
)
