// backend-go/internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Forecast ForecastConfig
	Storage  StorageConfig
	Drive    DriveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	SummaryTTLSeconds int
}

// ForecastConfig carries the tunables of the material forecast batch.
// Defaults: 30 forecast days, a 14 day trend window, 15 units/day fallback.
type ForecastConfig struct {
	ForecastDays            int
	TrendWindowDays         int
	StockoutSentinel        int
	ReorderHorizonDays      int
	FallbackDailyOutput     float64
	ConsumptionType         string
	TrendAdjust             bool
	Workers                 int
	ConsumptionLookbackDays int
	// Schedule is a cron spec (with seconds) or descriptor such as "@daily"
	// for batch runs inside the server; empty disables scheduling
	Schedule string
}

type StorageConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	UseSSL       bool
	ExportPrefix string
	// LocalDir stores exports on disk instead of S3 when set
	LocalDir string
}

type DriveConfig struct {
	CredentialsJSON string
	FolderID        string
	DownloadDir     string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults()

		// Read from environment variables
		viper.AutomaticEnv()

		instance = fromViper()
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SERVER_READ_TIMEOUT", 30)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 60)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "furnicast")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_SUMMARY_TTL_SECONDS", 300)

	viper.SetDefault("FORECAST_DAYS", 30)
	viper.SetDefault("FORECAST_TREND_WINDOW_DAYS", 14)
	viper.SetDefault("FORECAST_STOCKOUT_SENTINEL", 99999)
	viper.SetDefault("FORECAST_REORDER_HORIZON_DAYS", 30)
	viper.SetDefault("FORECAST_FALLBACK_DAILY_OUTPUT", 15.0)
	viper.SetDefault("FORECAST_CONSUMPTION_TYPE", "consumption")
	viper.SetDefault("FORECAST_TREND_ADJUST", true)
	viper.SetDefault("FORECAST_WORKERS", 1)
	viper.SetDefault("FORECAST_CONSUMPTION_LOOKBACK_DAYS", 0)
	viper.SetDefault("FORECAST_SCHEDULE", "")

	viper.SetDefault("EXPORT_S3_ENDPOINT", "")
	viper.SetDefault("EXPORT_S3_ACCESS_KEY", "")
	viper.SetDefault("EXPORT_S3_SECRET_KEY", "")
	viper.SetDefault("EXPORT_S3_BUCKET", "forecasts")
	viper.SetDefault("EXPORT_S3_REGION", "us-east-1")
	viper.SetDefault("EXPORT_S3_USE_SSL", true)
	viper.SetDefault("EXPORT_S3_PREFIX", "material_forecasts")
	viper.SetDefault("EXPORT_LOCAL_DIR", "")

	viper.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
	viper.SetDefault("LEDGER_DRIVE_FOLDER_ID", "")
	viper.SetDefault("LEDGER_DOWNLOAD_DIR", "./data/uploads/ledgers")
}

func fromViper() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Mode:           viper.GetString("SERVER_MODE"),
			LogLevel:       viper.GetString("LOG_LEVEL"),
			ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:           viper.GetBool("CACHE_ENABLED"),
			RedisURL:          viper.GetString("REDIS_URL"),
			RedisHost:         viper.GetString("REDIS_HOST"),
			RedisPort:         viper.GetString("REDIS_PORT"),
			RedisPassword:     viper.GetString("REDIS_PASSWORD"),
			RedisDB:           viper.GetInt("REDIS_DB"),
			SummaryTTLSeconds: viper.GetInt("CACHE_SUMMARY_TTL_SECONDS"),
		},
		Forecast: ForecastConfig{
			ForecastDays:            viper.GetInt("FORECAST_DAYS"),
			TrendWindowDays:         viper.GetInt("FORECAST_TREND_WINDOW_DAYS"),
			StockoutSentinel:        viper.GetInt("FORECAST_STOCKOUT_SENTINEL"),
			ReorderHorizonDays:      viper.GetInt("FORECAST_REORDER_HORIZON_DAYS"),
			FallbackDailyOutput:     viper.GetFloat64("FORECAST_FALLBACK_DAILY_OUTPUT"),
			ConsumptionType:         viper.GetString("FORECAST_CONSUMPTION_TYPE"),
			TrendAdjust:             viper.GetBool("FORECAST_TREND_ADJUST"),
			Workers:                 viper.GetInt("FORECAST_WORKERS"),
			ConsumptionLookbackDays: viper.GetInt("FORECAST_CONSUMPTION_LOOKBACK_DAYS"),
			Schedule:                viper.GetString("FORECAST_SCHEDULE"),
		},
		Storage: StorageConfig{
			Endpoint:     viper.GetString("EXPORT_S3_ENDPOINT"),
			AccessKey:    viper.GetString("EXPORT_S3_ACCESS_KEY"),
			SecretKey:    viper.GetString("EXPORT_S3_SECRET_KEY"),
			Bucket:       viper.GetString("EXPORT_S3_BUCKET"),
			Region:       viper.GetString("EXPORT_S3_REGION"),
			UseSSL:       viper.GetBool("EXPORT_S3_USE_SSL"),
			ExportPrefix: viper.GetString("EXPORT_S3_PREFIX"),
			LocalDir:     viper.GetString("EXPORT_LOCAL_DIR"),
		},
		Drive: DriveConfig{
			CredentialsJSON: viper.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
			FolderID:        viper.GetString("LEDGER_DRIVE_FOLDER_ID"),
			DownloadDir:     viper.GetString("LEDGER_DOWNLOAD_DIR"),
		},
	}
}
