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
	ServerConfig struct {
		Host                      string
		Port                      string
		DebugHost                 string
		ReadTimeout               time.Duration
		WriteTimeout              time.Duration
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	AssistantConfig struct {
		GeminiAPIKey  string
		GeminiBaseURL string
		GeminiModel   string
		Timeout       time.Duration
		HistoryLimit  int
	}

	RateLimitConfig struct {
		// requests per minute per client IP
		Chat  int
		Auth  int
		Burst int
	}

	StateConfig struct {
		Backend   string // memory (default), file, redis
		Dir       string
		RedisAddr string
		RedisDB   int
		TTL       time.Duration
	}

	Config struct {
		Debug                     bool
		TestMode                  bool
		AppName                   string
		Env                       string
		Build                     string
		WorkDir                   string
		SecretKey                 string
		FrontendBaseURL           string
		RollbarToken              string
		SendgridApiKey            string
		PasswordResetTimeoutDelta time.Duration
		DefaultFromEmail          mail.Address

		Server    ServerConfig
		Database  DatabaseConfig
		Assistant AssistantConfig
		RateLimit RateLimitConfig
		State     StateConfig
	}
)

func (dbc DatabaseConfig) Address() string {
	return net.JoinHostPort(dbc.Host, dbc.Port)
}

func (sc ServerConfig) Address() string {
	return net.JoinHostPort(sc.Host, sc.Port)
}

// NewConfig reads the app configuration: defaults, then `config/.env.<env>` (if any), then the environment.
// Environment variables are prefixed with the ENV value, e.g. PROD_DATABASE_HOST.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Tawjih")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "k7v^o2=tq#9y!xj0w$3b+eh8rlm(4zn_s1uap6dcgif)5")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("defaultFromName", "Tawjih")
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.debugHost", "0.0.0.0:4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 10*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 4*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 7*24*time.Hour)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "tawjih")
	v.SetDefault("database.user", "tawjih")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("assistant.geminiAPIKey", "")
	v.SetDefault("assistant.geminiBaseURL", "https://generativelanguage.googleapis.com")
	v.SetDefault("assistant.geminiModel", "gemini-2.0-flash")
	v.SetDefault("assistant.timeout", 20*time.Second)
	v.SetDefault("assistant.historyLimit", 5)

	v.SetDefault("rateLimit.chat", 20)
	v.SetDefault("rateLimit.auth", 10)
	v.SetDefault("rateLimit.burst", 5)

	v.SetDefault("state.backend", "memory")
	v.SetDefault("state.dir", filepath.Join(os.TempDir(), "tawjih-state"))
	v.SetDefault("state.redisAddr", "localhost:6379")
	v.SetDefault("state.redisDB", 0)
	v.SetDefault("state.ttl", 30*24*time.Hour)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	workDir := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:                     v.GetBool("debug"),
		TestMode:                  v.GetBool("testMode"),
		AppName:                   v.GetString("appName"),
		Env:                       env,
		Build:                     v.GetString("build"),
		WorkDir:                   workDir,
		SecretKey:                 v.GetString("secretKey"),
		FrontendBaseURL:           v.GetString("frontendBaseURL"),
		RollbarToken:              v.GetString("rollbarToken"),
		SendgridApiKey:            v.GetString("sendgridApiKey"),
		PasswordResetTimeoutDelta: v.GetDuration("passwordResetTimeoutDelta"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("defaultFromName"),
			Address: v.GetString("defaultFromEmail"),
		},
		Server: ServerConfig{
			Host:                      v.GetString("server.host"),
			Port:                      v.GetString("server.port"),
			DebugHost:                 v.GetString("server.debugHost"),
			ReadTimeout:               v.GetDuration("server.readTimeout"),
			WriteTimeout:              v.GetDuration("server.writeTimeout"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Assistant: AssistantConfig{
			GeminiAPIKey:  v.GetString("assistant.geminiAPIKey"),
			GeminiBaseURL: v.GetString("assistant.geminiBaseURL"),
			GeminiModel:   v.GetString("assistant.geminiModel"),
			Timeout:       v.GetDuration("assistant.timeout"),
			HistoryLimit:  v.GetInt("assistant.historyLimit"),
		},
		RateLimit: RateLimitConfig{
			Chat:  v.GetInt("rateLimit.chat"),
			Auth:  v.GetInt("rateLimit.auth"),
			Burst: v.GetInt("rateLimit.burst"),
		},
		State: StateConfig{
			Backend:   v.GetString("state.backend"),
			Dir:       v.GetString("state.dir"),
			RedisAddr: v.GetString("state.redisAddr"),
			RedisDB:   v.GetInt("state.redisDB"),
			TTL:       v.GetDuration("state.ttl"),
		},
	}
}

// NewTestConfig returns the config used by tests; it never reads the environment.
func NewTestConfig() *Config {
	return &Config{
		Debug:                     false,
		TestMode:                  true,
		AppName:                   "Tawjih",
		Env:                       "TEST",
		Build:                     "test",
		SecretKey:                 "test-secret-key",
		FrontendBaseURL:           "http://localhost:3000",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		DefaultFromEmail:          mail.Address{Name: "Tawjih", Address: "noreply@localhost"},
		Server: ServerConfig{
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        4 * time.Hour,
			JWTRefreshExpirationDelta: 7 * 24 * time.Hour,
		},
		Assistant: AssistantConfig{HistoryLimit: 5, Timeout: time.Second},
		RateLimit: RateLimitConfig{Chat: 600, Auth: 600, Burst: 100},
		State:     StateConfig{Backend: "memory"},
	}
}
