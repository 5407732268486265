package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	AppEnv          string `env:"APP_ENV" envDefault:"production"`
	HTTPPort        string `env:"HTTP_PORT" envDefault:"8000"`
	DatabaseURL     string `env:"DATABASE_URL,required"`
	DBMaxConns      int32  `env:"DB_MAX_CONNS" envDefault:"5"`
	DBRunMigrations bool   `env:"DB_RUN_MIGRATIONS" envDefault:"true"`

	JWTSecret      string `env:"JWT_SECRET,required"`
	JWTExpireHours int    `env:"JWT_EXPIRE_HOURS" envDefault:"24"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME" envDefault:"PrediSalaire"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	CodeTTLMinutes       int `env:"CODE_TTL_MINUTES" envDefault:"15"`
	OTPRateWindowMinutes int `env:"OTP_RATE_WINDOW_MINUTES" envDefault:"10"`
	OTPRateMax           int `env:"OTP_RATE_MAX" envDefault:"3"`

	ModelPath   string `env:"MODEL_PATH"`
	MLServerURL string `env:"ML_SERVER_URL"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173,http://127.0.0.1:3000"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTExpireHours) * time.Hour
}

func (c *Config) CodeTTL() time.Duration {
	return time.Duration(c.CodeTTLMinutes) * time.Minute
}

func (c *Config) OTPRateWindow() time.Duration {
	return time.Duration(c.OTPRateWindowMinutes) * time.Minute
}

// IsDevelopment indica si el servicio corre en modo desarrollo.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
