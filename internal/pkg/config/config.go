package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const EnvProduction = "production"

var ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required in production")

type Config struct {
	Port       string        `env:"PORT,        default=8080"`
	Env        string        `env:"ENV,         default=development"`
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=24h"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`

	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	// When empty the client address is the TCP peer.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// GeneratedSecret is set when no JWT_SECRET was supplied outside production
	// and a random per-process secret is used instead.
	GeneratedSecret bool

	Bootstrap BootstrapConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	RateLimit RateLimitConfig
}

type BootstrapConfig struct {
	Enabled       bool   `env:"BOOTSTRAP_DEFAULT_ACCOUNTS, default=false"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD,   default=admin123"`
	StaffPassword string `env:"BOOTSTRAP_STAFF_PASSWORD,   default=staff123"`
}

type PostgresConfig struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST,     default=localhost"`
	Port     string `env:"DB_PORT,     default=5432"`
	User     string `env:"DB_USER,     default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME,     default=inventory"`
	SSLMode  string `env:"DB_SSLMODE,  default=disable"`
}

// Empty Addr disables the Redis-backed login limiter.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Empty URI disables the audit trail.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=inventory"`
}

type RateLimitConfig struct {
	RequestsPerMinute  int           `env:"RATE_LIMIT_PER_MINUTE, default=300"`
	LoginMaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,    default=5"`
	LoginBlockDuration time.Duration `env:"LOGIN_BLOCK_DURATION,  default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper and applies the signing
// secret policy.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	if _, err := cfg.TrustedProxyNets(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingJWTSecret
		}
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("config: generate jwt secret: %w", err)
		}
		cfg.JWTSecret = secret
		cfg.GeneratedSecret = true
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// TrustedProxyNets parses TrustedProxies. A bare IP is treated as a single
// host network.
func (c *Config) TrustedProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				bits = 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

// DSN returns DATABASE_URL when set, otherwise a URL built from the DB_* fields.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.Name,
		RawQuery: url.Values{"sslmode": []string{p.SSLMode}}.Encode(),
	}
	if p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	} else {
		u.User = url.User(p.User)
	}
	return u.String()
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
