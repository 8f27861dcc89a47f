package configuration

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/granempresa/erp-portal/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

// LoadEnv loads the given env files. Relative paths that do not exist in the
// working directory are looked up again at the go.mod root, so packages run
// from nested directories (tests) still pick up the repository .env files.
func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	root, hasRoot := findGoModRoot()
	for _, file := range envFiles {
		if fs.FileExists(file) {
			existingFiles = append(existingFiles, file)
			continue
		}
		if hasRoot && !filepath.IsAbs(file) {
			candidate := filepath.Join(root, file)
			if fs.FileExists(candidate) {
				existingFiles = append(existingFiles, candidate)
			}
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

func findGoModRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if fs.FileExists(filepath.Join(dir, "go.mod")) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

type DatabaseOptions struct {
	Enabled  bool   `env:"DB_ENABLED" envDefault:"false"`
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"erp_portal"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

// BackendOptions holds the base URLs of the independent ERP backends.
type BackendOptions struct {
	ComprasURL    string        `env:"COMPRAS_BACKEND_URL" envDefault:"http://localhost:4001"`
	InventarioURL string        `env:"INVENTORY_BACKEND_URL" envDefault:"http://localhost:4002"`
	LogisticaURL  string        `env:"LOGISTICS_BACKEND_URL" envDefault:"http://localhost:4003"`
	RRHHURL       string        `env:"RRHH_BACKEND_URL" envDefault:"http://localhost:4004"`
	VentasURL     string        `env:"VENTAS_BACKEND_URL" envDefault:"http://localhost:4005"`
	Timeout       time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`
	MaxRetries    int           `env:"BACKEND_MAX_RETRIES" envDefault:"2"`
	MaxBackoff    time.Duration `env:"BACKEND_MAX_BACKOFF" envDefault:"5s"`
	FanOutLimit   int           `env:"BACKEND_FANOUT_LIMIT" envDefault:"8"`
	// How long a supplier catalog stays cached by the compras module.
	CatalogTTL time.Duration `env:"SUPPLIER_CATALOG_TTL" envDefault:"5m"`
}

// ByName returns the configured URLs keyed by backend name.
func (b *BackendOptions) ByName() map[string]string {
	return map[string]string{
		"compras":    b.ComprasURL,
		"inventario": b.InventarioURL,
		"logistica":  b.LogisticaURL,
		"rrhh":       b.RRHHURL,
		"ventas":     b.VentasURL,
	}
}

func (b *BackendOptions) Validate() error {
	for name, raw := range b.ByName() {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("backend %s: invalid base URL %q", name, raw)
		}
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive, got %s", b.Timeout)
	}
	if b.MaxRetries < 0 {
		return fmt.Errorf("BACKEND_MAX_RETRIES must be non-negative, got %d", b.MaxRetries)
	}
	if b.FanOutLimit <= 0 {
		return fmt.Errorf("BACKEND_FANOUT_LIMIT must be positive, got %d", b.FanOutLimit)
	}
	return nil
}

type SessionOptions struct {
	Store        string        `env:"SESSION_STORE" envDefault:"memory"` // memory or redis
	Duration     time.Duration `env:"SESSION_DURATION" envDefault:"12h"`
	SidCookieKey string        `env:"SID_COOKIE_KEY" envDefault:"sid"`
	KeyPrefix    string        `env:"SESSION_KEY_PREFIX" envDefault:"erp:session:"`
	// Login attempts allowed per minute and client IP.
	LoginAttempts int `env:"LOGIN_ATTEMPTS_PER_MINUTE" envDefault:"10"`
}

func (s *SessionOptions) Validate() error {
	if s.Store != "memory" && s.Store != "redis" {
		return fmt.Errorf("session Store must be 'memory' or 'redis', got '%s'", s.Store)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("SESSION_DURATION must be positive, got %s", s.Duration)
	}
	return nil
}

type LokiOptions struct {
	AppName string `env:"LOKI_APP_NAME" envDefault:"erp-portal"`
	LogPath string `env:"LOG_PATH" envDefault:"./logs/app.log"`
}

type OpenTelemetryOptions struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	TempoURL    string `env:"OTEL_TEMPO_URL" envDefault:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"erp-portal"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type RateLimitOptions struct {
	Enabled   bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	GlobalRPS int    `env:"RATE_LIMIT_GLOBAL_RPS" envDefault:"1000"`
	Storage   string `env:"RATE_LIMIT_STORAGE" envDefault:"memory"` // memory or redis
	RedisURL  string `env:"RATE_LIMIT_REDIS_URL"`
}

// Validate checks the rate limit configuration for errors
func (r *RateLimitOptions) Validate() error {
	if r.GlobalRPS < 0 {
		return fmt.Errorf("rate limit GlobalRPS must be non-negative, got %d", r.GlobalRPS)
	}
	if r.GlobalRPS > 1000000 {
		return fmt.Errorf("rate limit GlobalRPS too high, maximum is 1,000,000, got %d", r.GlobalRPS)
	}
	if r.Storage != "memory" && r.Storage != "redis" {
		return fmt.Errorf("rate limit Storage must be 'memory' or 'redis', got '%s'", r.Storage)
	}
	if r.Storage == "redis" && r.RedisURL == "" {
		return fmt.Errorf("rate limit RedisURL is required when Storage is 'redis'")
	}
	return nil
}

type AuthzOptions struct {
	ModelPath      string `env:"AUTHZ_MODEL_PATH" envDefault:"config/access/model.conf"`
	PolicyPath     string `env:"AUTHZ_POLICY_PATH" envDefault:"config/access/policy.csv"`
	FlagConfigPath string `env:"AUTHZ_FLAG_CONFIG" envDefault:"config/access/authz_flags.yaml"`
	Mode           string `env:"AUTHZ_MODE" envDefault:"enforce"`
}

type SMTPOptions struct {
	Host          string `env:"SMTP_HOST"`
	Port          string `env:"SMTP_PORT" envDefault:"587"`
	User          string `env:"SMTP_USER"`
	Pass          string `env:"SMTP_PASS"`
	From          string `env:"SMTP_FROM" envDefault:"no-reply@granempresa.cl"`
	FromName      string `env:"SMTP_FROM_NAME" envDefault:"Gran Empresa ERP"`
	TLSMode       string `env:"SMTP_TLS_MODE" envDefault:"starttls"` // none, starttls or tls
	SkipVerifyTLS bool   `env:"SMTP_SKIP_VERIFY_TLS" envDefault:"false"`
}

// Enabled reports whether an SMTP relay is configured at all.
func (s *SMTPOptions) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
}

// BusinessOptions are the tax and currency rules used to derive document totals.
type BusinessOptions struct {
	IVARate  string `env:"IVA_RATE" envDefault:"0.19"`
	Currency string `env:"CURRENCY" envDefault:"CLP"`
	// Used when a product carries no stock_minimo of its own.
	LowStockFallback int `env:"LOW_STOCK_THRESHOLD_FALLBACK" envDefault:"5"`
}

func (b *BusinessOptions) IVA() decimal.Decimal {
	rate, err := decimal.NewFromString(b.IVARate)
	if err != nil {
		return decimal.RequireFromString("0.19")
	}
	return rate
}

func (b *BusinessOptions) Validate() error {
	rate, err := decimal.NewFromString(b.IVARate)
	if err != nil {
		return fmt.Errorf("invalid IVA_RATE=%q: %w", b.IVARate, err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("IVA_RATE must be in [0, 1), got %s", b.IVARate)
	}
	if len(strings.TrimSpace(b.Currency)) != 3 {
		return fmt.Errorf("CURRENCY must be an ISO 4217 code, got %q", b.Currency)
	}
	if b.LowStockFallback < 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD_FALLBACK must be non-negative, got %d", b.LowStockFallback)
	}
	return nil
}

type Configuration struct {
	Database      DatabaseOptions
	Backends      BackendOptions
	Session       SessionOptions
	Loki          LokiOptions
	OpenTelemetry OpenTelemetryOptions
	Prometheus    PrometheusOptions
	RateLimit     RateLimitOptions
	Authz         AuthzOptions
	SMTP          SMTPOptions
	Business      BusinessOptions

	RedisURL         string `env:"REDIS_URL" envDefault:"localhost:6379"`
	ServerPort       int    `env:"PORT" envDefault:"3200"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string `env:"-"`
	Domain           string `env:"DOMAIN" envDefault:"localhost"`
	Origin           string `env:"ORIGIN" envDefault:"http://localhost:3200"`
	CorsOrigins      string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173"`
	PageSize         int    `env:"PAGE_SIZE" envDefault:"25"`
	MaxPageSize      int    `env:"MAX_PAGE_SIZE" envDefault:"100"`
	MaxUploadSize    int64  `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	ActionLogEnabled bool   `env:"ACTION_LOG_ENABLED" envDefault:"true"`
	ActionLogBuffer  int    `env:"ACTION_LOG_MEMORY_SIZE" envDefault:"500"`
	// The portal will look for this header in the request, if it's not present, it will generate a random uuidv4
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	// The portal will look for this header in the request, if it's not present, it will use request.RemoteAddr
	RealIPHeader string `env:"REAL_IP_HEADER" envDefault:"X-Real-IP"`

	// Ops endpoints guard (/health, /debug/prometheus). Enforced only in production.
	OpsGuardEnabled bool   `env:"OPS_GUARD_ENABLED" envDefault:"true"`
	OpsGuardCIDRs   string `env:"OPS_GUARD_CIDRS" envDefault:""`
	OpsGuardToken   string `env:"OPS_GUARD_TOKEN" envDefault:""`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func (c *Configuration) Scheme() string {
	if c.GoAppEnvironment == Production { // assume 'https' on production mode
		return "https"
	}
	return "http"
}

// AllowedOrigins splits CORS_ORIGINS on commas and whitespace.
func (c *Configuration) AllowedOrigins() []string {
	return strings.FieldsFunc(c.CorsOrigins, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
}

func Use() *Configuration {
	return singleton()
}

// Parse builds a configuration from the process environment only, without
// touching log files. Used by tests and CLI commands.
func Parse() (*Configuration, error) {
	c := &Configuration{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	c.finalize()
	return c, nil
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}
	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.Loki.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger
	c.finalize()
	return nil
}

func (c *Configuration) validate() error {
	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate limit configuration error: %w", err)
	}
	if err := c.Backends.Validate(); err != nil {
		return fmt.Errorf("backend configuration error: %w", err)
	}
	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session configuration error: %w", err)
	}
	if err := c.Business.Validate(); err != nil {
		return fmt.Errorf("business configuration error: %w", err)
	}
	if c.PageSize <= 0 || c.MaxPageSize < c.PageSize {
		return fmt.Errorf("invalid PAGE_SIZE=%d / MAX_PAGE_SIZE=%d", c.PageSize, c.MaxPageSize)
	}
	return c.validateAuthzMode()
}

func (c *Configuration) validateAuthzMode() error {
	mode := strings.ToLower(strings.TrimSpace(c.Authz.Mode))
	if mode == "" {
		mode = "enforce"
	}
	switch mode {
	case "disabled", "shadow", "enforce":
	default:
		return fmt.Errorf("invalid AUTHZ_MODE=%q (expected disabled|shadow|enforce)", c.Authz.Mode)
	}
	c.Authz.Mode = mode
	return nil
}

func (c *Configuration) finalize() {
	if c.logger == nil {
		c.logger = logging.ConsoleLogger(c.LogrusLogLevel())
	}
	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}

	if os.Getenv("ORIGIN") == "" {
		// Only include port in Origin for development environment
		if c.GoAppEnvironment == "development" {
			c.Origin = fmt.Sprintf("%s://%s:%d", c.Scheme(), c.Domain, c.ServerPort)
		} else {
			c.Origin = fmt.Sprintf("%s://%s", c.Scheme(), c.Domain)
		}
	}
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
