package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Market   MarketConfig
	Cron     CronConfig
	Upload   UploadConfig
	GRPC     GRPCConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

type ServerConfig struct {
	Port         string        `env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	AllowOrigins string        `env:"CORS_ALLOW_ORIGINS" env-default:"*"`
	Env          string        `env:"APP_ENV" env-default:"dev"`
	Version      string        `env:"APP_VERSION" env-default:"dev"`
}

type DatabaseConfig struct {
	Host        string `env:"DB_HOST" env-default:"localhost"`
	Port        string `env:"DB_PORT" env-default:"5432"`
	User        string `env:"DB_USER" env-default:"postgres"`
	Password    string `env:"DB_PASSWORD" env-default:"postgres"`
	DBName      string `env:"DB_NAME" env-default:"fintrack"`
	SSLMode     string `env:"DB_SSLMODE" env-default:"disable"`
	MaxConns    int32  `env:"DB_MAX_CONNS" env-default:"10"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// DSN returns a libpq keyword/value connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type JWTConfig struct {
	SecretKey    string        `env:"JWT_SECRET_KEY" env-default:"change-me-in-production"`
	Expiration   time.Duration `env:"JWT_EXPIRATION" env-default:"24h"`
	RefreshExp   time.Duration `env:"JWT_REFRESH_EXPIRATION" env-default:"168h"`
	CookieSecure bool          `env:"JWT_COOKIE_SECURE" env-default:"false"`
}

type RedisConfig struct {
	// Addr is "host:port". Empty disables the quote cache.
	Addr     string        `env:"REDIS_ADDR" env-default:""`
	Password string        `env:"REDIS_PASSWORD" env-default:""`
	DB       int           `env:"REDIS_DB" env-default:"0"`
	QuoteTTL time.Duration `env:"REDIS_QUOTE_TTL" env-default:"15m"`
}

// MarketConfig describes the market-data provider. The *Path fields are
// JSONPath expressions evaluated against the provider's quote payload.
type MarketConfig struct {
	BaseURL       string        `env:"MARKET_BASE_URL" env-default:"https://eodhd.com/api"`
	APIKey        string        `env:"MARKET_API_KEY" env-default:"demo"`
	Timeout       time.Duration `env:"MARKET_TIMEOUT" env-default:"10s"`
	PricePath     string        `env:"MARKET_PRICE_PATH" env-default:"$.close"`
	ChangePath    string        `env:"MARKET_CHANGE_PATH" env-default:"$.change_p"`
	TimestampPath string        `env:"MARKET_TIMESTAMP_PATH" env-default:"$.timestamp"`
}

type CronConfig struct {
	Secret     string `env:"CRON_SECRET" env-default:""`
	MaxCatchUp int    `env:"RECURRING_MAX_CATCH_UP" env-default:"366"`
	BatchSize  int    `env:"RECURRING_BATCH_SIZE" env-default:"500"`
}

type UploadConfig struct {
	Dir       string `env:"UPLOAD_DIR" env-default:"uploads"`
	MaxSizeMB int    `env:"UPLOAD_MAX_SIZE_MB" env-default:"10"`
}

type GRPCConfig struct {
	// HealthAddr enables the gRPC health service when set, e.g. ":50051".
	HealthAddr string `env:"GRPC_HEALTH_ADDR" env-default:""`
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work for Docker/K8s
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if cfg.Cron.MaxCatchUp < 1 {
		cfg.Cron.MaxCatchUp = 1
	}
	if cfg.Cron.BatchSize < 1 {
		return nil, fmt.Errorf("RECURRING_BATCH_SIZE must be positive, got %d", cfg.Cron.BatchSize)
	}
	return &cfg, nil
}
