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
	Wallet        WalletConfig
	Commission    CommissionConfig
	Notifications NotificationsConfig
	Worker        WorkerConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"SKILLEARN_APP_ENV" required:"true"`
	Port         string `envconfig:"SKILLEARN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SKILLEARN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SKILLEARN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SKILLEARN_DB_DSN"`
	Driver string `envconfig:"SKILLEARN_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SKILLEARN_DB_HOST"`
	Port     int    `envconfig:"SKILLEARN_DB_PORT" default:"5432"`
	User     string `envconfig:"SKILLEARN_DB_USER"`
	Password string `envconfig:"SKILLEARN_DB_PASSWORD"`
	Name     string `envconfig:"SKILLEARN_DB_NAME"`
	SSLMode  string `envconfig:"SKILLEARN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SKILLEARN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SKILLEARN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SKILLEARN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SKILLEARN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SKILLEARN_REDIS_URL"`
	Address      string        `envconfig:"SKILLEARN_REDIS_ADDR"`
	Password     string        `envconfig:"SKILLEARN_REDIS_PASSWORD"`
	DB           int           `envconfig:"SKILLEARN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SKILLEARN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SKILLEARN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SKILLEARN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SKILLEARN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SKILLEARN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// WalletConfig carries the payout policy knobs.
type WalletConfig struct {
	MinWithdrawalPaise   int64 `envconfig:"SKILLEARN_WALLET_MIN_WITHDRAWAL_PAISE" default:"10000"`
	WithdrawalFeePercent int   `envconfig:"SKILLEARN_WALLET_WITHDRAWAL_FEE_PERCENT" default:"5"`
}

// CommissionConfig configures the flat per-level referral bonuses.
type CommissionConfig struct {
	MaxLevels   int   `envconfig:"SKILLEARN_COMMISSION_MAX_LEVELS" default:"2"`
	Level1Paise int64 `envconfig:"SKILLEARN_COMMISSION_LEVEL1_PAISE" default:"30000"`
	Level2Paise int64 `envconfig:"SKILLEARN_COMMISSION_LEVEL2_PAISE" default:"10000"`
}

// AmountForLevel returns the configured flat bonus for a 1-indexed level.
func (c CommissionConfig) AmountForLevel(level int) (int64, bool) {
	switch level {
	case 1:
		if c.Level1Paise > 0 {
			return c.Level1Paise, true
		}
	case 2:
		if c.Level2Paise > 0 {
			return c.Level2Paise, true
		}
	}
	return 0, false
}

type NotificationsConfig struct {
	Channel string `envconfig:"SKILLEARN_NOTIFICATIONS_CHANNEL" default:"skillearn.wallet.events"`
}

type WorkerConfig struct {
	PendingPollInterval time.Duration `envconfig:"SKILLEARN_WORKER_PENDING_POLL_INTERVAL" default:"30s"`
	MetricsPort         string        `envconfig:"SKILLEARN_WORKER_METRICS_PORT" default:"9090"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SKILLEARN_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
