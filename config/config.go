package config

import (
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageLocal  = "local"
	StorageGitHub = "github"
)

type Config struct {
	GeneralVersion       string        `mapstructure:"GENERAL_VERSION"`
	Environment          string        `mapstructure:"ENVIRONMENT"`
	ServerPort           int           `mapstructure:"SERVER_PORT"`
	DatabaseDriver       string        `mapstructure:"DB_DRIVER"`
	DatabaseHost         string        `mapstructure:"DB_HOST"`
	DatabasePort         int           `mapstructure:"DB_PORT"`
	DatabaseName         string        `mapstructure:"DB_NAME"`
	DatabaseUser         string        `mapstructure:"DB_USER"`
	DatabasePassword     string        `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string        `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int           `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int           `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string        `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret            string        `mapstructure:"JWT_SECRET"`
	JWTAccessTTL         time.Duration `mapstructure:"JWT_ACCESS_TTL"`
	JWTRefreshTTL        time.Duration `mapstructure:"JWT_REFRESH_TTL"`
	StorageType          string        `mapstructure:"STORAGE_TYPE"`
	UploadDir            string        `mapstructure:"UPLOAD_DIR"`
	UploadURLPrefix      string        `mapstructure:"UPLOAD_URL_PREFIX"`
	GitHubToken          string        `mapstructure:"GITHUB_TOKEN"`
	GitHubOwner          string        `mapstructure:"GITHUB_OWNER"`
	GitHubRepo           string        `mapstructure:"GITHUB_REPO"`
	GitHubBranch         string        `mapstructure:"GITHUB_BRANCH"`
	SMTPHost             string        `mapstructure:"SMTP_HOST"`
	SMTPPort             int           `mapstructure:"SMTP_PORT"`
	SMTPUser             string        `mapstructure:"SMTP_USER"`
	SMTPPass             string        `mapstructure:"SMTP_PASS"`
	SMTPFrom             string        `mapstructure:"SMTP_FROM"`
	ChatwootAPIURL       string        `mapstructure:"CHATWOOT_API_URL"`
	ChatwootAPIToken     string        `mapstructure:"CHATWOOT_API_TOKEN"`
	ChatwootAccountID    string        `mapstructure:"CHATWOOT_ACCOUNT_ID"`
	ChatwootInboxID      string        `mapstructure:"CHATWOOT_INBOX_ID"`
	FrontendURL          string        `mapstructure:"FRONTEND_URL"`
	AppURL               string        `mapstructure:"APP_URL"`
	SchedulerEnabled     bool          `mapstructure:"SCHEDULER_ENABLED"`
	AdminEmail           string        `mapstructure:"ADMIN_EMAIL"`
	AdminPassword        string        `mapstructure:"ADMIN_PASSWORD"`
}

var ConfigInstance Config

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS",
	"JWT_SECRET", "JWT_ACCESS_TTL", "JWT_REFRESH_TTL",
	"STORAGE_TYPE", "UPLOAD_DIR", "UPLOAD_URL_PREFIX",
	"GITHUB_TOKEN", "GITHUB_OWNER", "GITHUB_REPO", "GITHUB_BRANCH",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_FROM",
	"CHATWOOT_API_URL", "CHATWOOT_API_TOKEN", "CHATWOOT_ACCOUNT_ID", "CHATWOOT_INBOX_ID",
	"FRONTEND_URL", "APP_URL", "SCHEDULER_ENABLED", "ADMIN_EMAIL", "ADMIN_PASSWORD",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_CACHE_RESET", -1)
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	v.SetDefault("JWT_ACCESS_TTL", "24h")
	v.SetDefault("JWT_REFRESH_TTL", "168h")
	v.SetDefault("STORAGE_TYPE", StorageLocal)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_URL_PREFIX", "/uploads")
	v.SetDefault("GITHUB_BRANCH", "main")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM", "Vistoria <noreply@vistoria.app>")
	v.SetDefault("CHATWOOT_API_URL", "https://app.chatwoot.com")
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	for _, env := range envVars {
		if err := v.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	if v.IsSet("SERVER_PORT") && v.IsSet("JWT_SECRET") {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		v.SetConfigFile(".env.local")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := Validate(config); err != nil {
		return Config{}, err
	}

	ConfigInstance = config
	log.Info("Successfully initialized config",
		"environment", config.Environment,
		"dbDriver", config.DatabaseDriver,
		"storage", config.StorageType,
	)
	return config, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func Validate(config Config) error {
	log := logger.New("config").Function("Validate")

	if config.ServerPort <= 0 {
		return log.Error("Fatal error: invalid server port", "port", config.ServerPort)
	}

	if config.JWTSecret == "" {
		return log.ErrMsg("Fatal error: JWT_SECRET is required")
	}

	switch config.DatabaseDriver {
	case DriverSQLite:
		if config.DatabaseName == "" {
			return log.ErrMsg("Fatal error: DB_NAME is required for sqlite")
		}
	case DriverPostgres:
		if config.DatabaseHost == "" || config.DatabaseName == "" || config.DatabaseUser == "" {
			return log.ErrMsg("Fatal error: DB_HOST, DB_NAME and DB_USER are required for postgres")
		}
	default:
		return log.Error("Fatal error: unsupported DB_DRIVER", "driver", config.DatabaseDriver)
	}

	switch config.StorageType {
	case StorageLocal:
	case StorageGitHub:
		if config.GitHubToken == "" || config.GitHubOwner == "" || config.GitHubRepo == "" {
			return log.ErrMsg(
				"Fatal error: GITHUB_TOKEN, GITHUB_OWNER and GITHUB_REPO required when STORAGE_TYPE=github",
			)
		}
	default:
		return log.Error("Fatal error: unsupported STORAGE_TYPE", "storage", config.StorageType)
	}

	return nil
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c Config) CacheEnabled() bool {
	return c.DatabaseCacheAddress != "" && c.DatabaseCachePort != 0
}
