package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	Service     ServiceConfig
	DB          DBConfig
	Redis       RedisConfig
	CartToken   CartTokenConfig
	Reservation ReservationConfig
	Shipping    ShippingConfig
	Mail        MailConfig
	Flags       FeatureFlagsConfig
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
	Env          string `envconfig:"ALTIPLANO_APP_ENV" required:"true"`
	Port         string `envconfig:"ALTIPLANO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ALTIPLANO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ALTIPLANO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ALTIPLANO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ALTIPLANO_DB_DSN"`
	Driver string `envconfig:"ALTIPLANO_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"ALTIPLANO_DB_HOST"`
	Port     int    `envconfig:"ALTIPLANO_DB_PORT" default:"5432"`
	User     string `envconfig:"ALTIPLANO_DB_USER"`
	Password string `envconfig:"ALTIPLANO_DB_PASSWORD"`
	Name     string `envconfig:"ALTIPLANO_DB_NAME"`
	SSLMode  string `envconfig:"ALTIPLANO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ALTIPLANO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ALTIPLANO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ALTIPLANO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ALTIPLANO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ALTIPLANO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ALTIPLANO_REDIS_ADDR"`
	Password     string        `envconfig:"ALTIPLANO_REDIS_PASSWORD"`
	DB           int           `envconfig:"ALTIPLANO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ALTIPLANO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ALTIPLANO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ALTIPLANO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ALTIPLANO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ALTIPLANO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartTokenConfig signs the opaque cart tokens handed to storefront clients.
type CartTokenConfig struct {
	Secret     string `envconfig:"ALTIPLANO_CART_TOKEN_SECRET" required:"true"`
	Issuer     string `envconfig:"ALTIPLANO_CART_TOKEN_ISSUER" required:"true"`
	TTLMinutes int    `envconfig:"ALTIPLANO_CART_TOKEN_TTL_MINUTES" default:"120"`
}

// TTL returns the cart token lifetime.
func (c CartTokenConfig) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

// ReservationConfig holds the stock hold TTL applied to new orders.
type ReservationConfig struct {
	TTLMinutes int `envconfig:"ALTIPLANO_RESERVATION_TTL_MINUTES" default:"10"`
}

// TTL returns the reservation lifetime.
func (r ReservationConfig) TTL() time.Duration {
	if r.TTLMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(r.TTLMinutes) * time.Minute
}

// ShippingConfig carries the flat shipment prices consumed at order creation.
// Shipping-rate authoring lives outside this service.
type ShippingConfig struct {
	NationalPrice      string `envconfig:"ALTIPLANO_SHIPPING_NATIONAL_PRICE" default:"15.00"`
	InternationalPrice string `envconfig:"ALTIPLANO_SHIPPING_INTERNATIONAL_PRICE" default:"80.00"`
}

type MailConfig struct {
	FromAddress string `envconfig:"ALTIPLANO_MAIL_FROM" default:"no-reply@altiplano.store"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ALTIPLANO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ALTIPLANO_AUTO_MIGRATE" default:"false"`
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
