package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	Cart          CartConfig
	PubSub        PubSubConfig
	Changefeed    ChangefeedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"NOVALUX_APP_ENV" required:"true"`
	Port         string   `envconfig:"NOVALUX_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"NOVALUX_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"NOVALUX_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"NOVALUX_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"NOVALUX_DB_DSN"`
	Driver string `envconfig:"NOVALUX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NOVALUX_DB_HOST"`
	LegacyPort     int    `envconfig:"NOVALUX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NOVALUX_DB_USER"`
	LegacyPassword string `envconfig:"NOVALUX_DB_PASSWORD"`
	LegacyName     string `envconfig:"NOVALUX_DB_NAME"`
	LegacySSLMode  string `envconfig:"NOVALUX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NOVALUX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NOVALUX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NOVALUX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NOVALUX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NOVALUX_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NOVALUX_REDIS_ADDR"`
	Password     string        `envconfig:"NOVALUX_REDIS_PASSWORD"`
	DB           int           `envconfig:"NOVALUX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NOVALUX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NOVALUX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NOVALUX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NOVALUX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NOVALUX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"NOVALUX_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"NOVALUX_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"NOVALUX_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"NOVALUX_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"NOVALUX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"NOVALUX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"NOVALUX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"NOVALUX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"NOVALUX_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"NOVALUX_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"NOVALUX_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"NOVALUX_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"NOVALUX_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"NOVALUX_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"NOVALUX_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"NOVALUX_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"NOVALUX_GCS_BUCKET_NAME" required:"true"`
	// PublicBaseURL overrides the default storage.googleapis.com URL root,
	// mainly for CDN fronting.
	PublicBaseURL string `envconfig:"NOVALUX_GCS_PUBLIC_BASE_URL"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"NOVALUX_MAX_UPLOAD_MB" default:"5"`
}

type CartConfig struct {
	IdleTTL       time.Duration `envconfig:"NOVALUX_CART_IDLE_TTL" default:"2h"`
	PruneInterval time.Duration `envconfig:"NOVALUX_CART_PRUNE_INTERVAL" default:"10m"`
}

type PubSubConfig struct {
	ProductsTopic        string `envconfig:"NOVALUX_PUBSUB_PRODUCTS_TOPIC" required:"true"`
	ProductsSubscription string `envconfig:"NOVALUX_PUBSUB_PRODUCTS_SUBSCRIPTION" required:"true"`
	OrdersTopic          string `envconfig:"NOVALUX_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription   string `envconfig:"NOVALUX_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
}

type ChangefeedConfig struct {
	BatchSize       int `envconfig:"NOVALUX_CHANGEFEED_BATCH_SIZE" default:"50"`
	PollIntervalMS  int `envconfig:"NOVALUX_CHANGEFEED_POLL_MS" default:"500"`
	PublishAttempts int `envconfig:"NOVALUX_CHANGEFEED_PUBLISH_ATTEMPTS" default:"5"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
