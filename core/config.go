package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName          string `mapstructure:"appName"`
		Build            string `mapstructure:"build"`
		Env              string `mapstructure:"env"`
		Debug            bool   `mapstructure:"debug"`
		TestMode         bool   `mapstructure:"testMode"`
		FrontendBaseURL  string `mapstructure:"frontendBaseURL"`
		DefaultFromName  string `mapstructure:"defaultFromName"`
		DefaultFromAddr  string `mapstructure:"defaultFromEmail"`
		RollbarToken     string `mapstructure:"rollbarToken"`
		SendgridApiKey   string `mapstructure:"sendgridApiKey"`
		WorkDir          string `mapstructure:"workDir"`
		Auth             AuthConfig
		Server           ServerConfig
		Database         DatabaseConfig
		Cache            CacheConfig
		Quiz             QuizConfig
		Reminders        RemindersConfig
	}

	AuthConfig struct {
		// JWTSecret verifies the HS256 tokens issued by the identity provider.
		JWTSecret string `mapstructure:"jwtSecret"`
		// JWTExpirationDelta is only used when minting tokens locally (tests, dev tooling).
		JWTExpirationDelta time.Duration `mapstructure:"jwtExpirationDelta"`
	}

	ServerConfig struct {
		Address         string        `mapstructure:"address"`
		DebugAddress    string        `mapstructure:"debugAddress"`
		Host            string        `mapstructure:"host"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
		ReadTimeout     time.Duration `mapstructure:"readTimeout"`
		WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	}

	DatabaseConfig struct {
		Engine        string `mapstructure:"engine"` // postgres | pgx | sqlite3
		Host          string `mapstructure:"host"`
		Port          string `mapstructure:"port"`
		Name          string `mapstructure:"name"`
		User          string `mapstructure:"user"`
		Password      string `mapstructure:"password"`
		AdminUser     string `mapstructure:"adminUser"`
		AdminPassword string `mapstructure:"adminPassword"`
		DisableTLS    bool   `mapstructure:"disableTLS"`
		Path          string `mapstructure:"path"` // sqlite3 only
	}

	CacheConfig struct {
		TTL time.Duration `mapstructure:"ttl"`
	}

	QuizConfig struct {
		MinKeyFactLength int `mapstructure:"minKeyFactLength"`
		MaxDistractors   int `mapstructure:"maxDistractors"`
	}

	RemindersConfig struct {
		WithinDays int `mapstructure:"withinDays"`
	}
)

func (c DatabaseConfig) Address() string {
	if c.Port == "" {
		return c.Host
	}
	return net.JoinHostPort(c.Host, c.Port)
}

// IsPostgres reports whether the configured engine talks to a PostgreSQL server.
func (c DatabaseConfig) IsPostgres() bool {
	return c.Engine == "postgres" || c.Engine == "pgx"
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.DefaultFromName, Address: c.DefaultFromAddr}
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "Pensum")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromName", "Pensum")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("workDir", "")

	v.SetDefault("auth.jwtSecret", "kq2!v9d@l0p#x7m&s4t*z8w(r1n)e6b")
	v.SetDefault("auth.jwtExpirationDelta", time.Hour)

	v.SetDefault("server.address", "0.0.0.0:8000")
	v.SetDefault("server.debugAddress", "0.0.0.0:4000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 5*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "pensum")
	v.SetDefault("database.user", "pensum")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.path", "pensum.db")

	v.SetDefault("cache.ttl", 30*time.Second)

	v.SetDefault("quiz.minKeyFactLength", 5)
	v.SetDefault("quiz.maxDistractors", 3)

	v.SetDefault("reminders.withinDays", 7)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetDefault("env", env)
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		log.Fatalf("config.Unmarshal: %v", err)
	}
	return &conf
}
