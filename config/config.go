package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig       `envPrefix:"USERAPP_"`
	Server    ServerConfig    `envPrefix:"USERAPP_SERVER_"`
	Log       LogConfig       `envPrefix:"USERAPP_LOG_"`
	Database  DatabaseConfig  `envPrefix:"USERAPP_DATABASE_"`
	Auth      AuthConfig      `envPrefix:"USERAPP_AUTH_"`
	JWT       JWTConfig       `envPrefix:"USERAPP_JWT_"`
	Mail      MailConfig      `envPrefix:"USERAPP_MAIL_"`
	RateLimit RateLimitConfig `envPrefix:"USERAPP_RATELIMIT_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"user app"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"localhost"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"userapp.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type AuthConfig struct {
	BcryptCost       int           `env:"BCRYPT_COST" envDefault:"10"`
	CodeLength       int           `env:"CODE_LENGTH" envDefault:"32"`
	VerifyCodeExpiry time.Duration `env:"VERIFY_CODE_EXPIRY" envDefault:"24h"`
	ResetCodeExpiry  time.Duration `env:"RESET_CODE_EXPIRY" envDefault:"1h"`
}

type JWTConfig struct {
	SecretKey string        `env:"SECRET_KEY"`
	Issuer    string        `env:"ISSUER" envDefault:"userapp"`
	Expiry    time.Duration `env:"EXPIRY" envDefault:"24h"`
}

type MailConfig struct {
	Host        string `env:"HOST" envDefault:"localhost"`
	Port        int    `env:"PORT" envDefault:"587"`
	Username    string `env:"USERNAME"`
	Password    string `env:"PASSWORD"`
	Encryption  string `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress string `env:"FROM_ADDRESS"`
	FromName    string `env:"FROM_NAME"`
}

type RateLimitConfig struct {
	Enabled bool          `env:"ENABLED" envDefault:"true"`
	Rate    int           `env:"RATE" envDefault:"10"`
	Period  time.Duration `env:"PERIOD" envDefault:"1m"`
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	return env.Parse(cfg)
}
