package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultSeedAdminPassword = "admin12345"

type Config struct {
	AppEnv          string `env:"APP_ENV" envDefault:"development"`
	Port            string `env:"PORT" envDefault:"8080"`
	AllowedOrigins  string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
	TrustedProxyIPs string `env:"TRUSTED_PROXIES"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPass      string `env:"DB_PASS"`
	DBName      string `env:"DB_NAME" envDefault:"placement_portal"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`

	RedisURL string `env:"REDIS_URL"`

	JWTAccessSecret  string        `env:"JWT_ACCESS_SECRET" envDefault:"change-me-access"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET" envDefault:"change-me-refresh"`
	JWTAccessTTL     time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	JWTRefreshTTL    time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	BcryptCost       int           `env:"BCRYPT_COST" envDefault:"10"`

	UploadMaxBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`

	CloudinaryURL          string `env:"CLOUDINARY_URL"`
	CloudinaryCloudName    string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey       string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret    string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryUploadFolder string `env:"CLOUDINARY_UPLOAD_FOLDER" envDefault:"placement_portal"`

	MeiliSearchHost string `env:"MEILISEARCH_HOST"`
	MeiliMasterKey  string `env:"MEILI_MASTER_KEY"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
	CollegeEmailDomain string `env:"COLLEGE_EMAIL_DOMAIN"`

	LoginRatePerMinute int           `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
	SupportRateLimit   time.Duration `env:"SUPPORT_RATE_LIMIT" envDefault:"1m"`
	ApplyRateLimit     time.Duration `env:"APPLY_RATE_LIMIT" envDefault:"5s"`

	TokenCleanupSchedule string `env:"TOKEN_CLEANUP_SCHEDULE" envDefault:"@every 12h"`
	JobExpirySchedule    string `env:"JOB_EXPIRY_SCHEDULE" envDefault:"*/15 * * * *"`

	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@placement.local"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"admin12345"`
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.UploadMaxBytes <= 0 {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_BYTES: %d", cfg.UploadMaxBytes)
	}
	if cfg.JWTAccessTTL <= 0 || cfg.JWTRefreshTTL <= 0 {
		return nil, fmt.Errorf("token ttls must be positive")
	}
	if cfg.IsProduction() && (weakSecret(cfg.JWTAccessSecret) || weakSecret(cfg.JWTRefreshSecret)) {
		return nil, fmt.Errorf("JWT secrets must be set in production")
	}
	if cfg.IsProduction() && (cfg.SeedAdminPassword == "" || cfg.SeedAdminPassword == defaultSeedAdminPassword) {
		return nil, fmt.Errorf("SEED_ADMIN_PASSWORD must be changed in production")
	}

	return cfg, nil
}

func weakSecret(secret string) bool {
	return secret == "" || strings.HasPrefix(secret, "change-me")
}

// CloudinaryEnabled reports whether either credential style is configured.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryURL != "" || (c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "")
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// TrustedProxies lists the proxies whose X-Forwarded-For is honoured.
// Empty means none, so the client IP is always the socket address.
func (c *Config) TrustedProxies() []string {
	return splitList(c.TrustedProxyIPs)
}

// Origins splits ALLOWED_ORIGINS into a list for CORS.
func (c *Config) Origins() []string {
	origins := splitList(c.AllowedOrigins)
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
