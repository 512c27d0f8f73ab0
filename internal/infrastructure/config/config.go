package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App      AppConfig    `mapstructure:"app"`
	Server   ServerConfig `mapstructure:"server"`
	Mongo    MongoConfig  `mapstructure:"mongo"`
	Auth     AuthConfig   `mapstructure:"auth"`
	Cache    CacheConfig  `mapstructure:"cache"`
	Image    ImageConfig  `mapstructure:"image"`
	LogLevel string       `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// MongoConfig MongoDB 設定，URI 留空時改用內存存儲（開發模式）
type MongoConfig struct {
	URI      string        `mapstructure:"uri"`
	Database string        `mapstructure:"database"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// AuthConfig 認證設定
type AuthConfig struct {
	Secret       string        `mapstructure:"secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`        // 登入 token 有效期
	SignupTTL    time.Duration `mapstructure:"signup_token_ttl"` // 註冊 token 有效期
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

// CacheConfig 公開食譜視圖快取設定，RedisAddr 留空時使用內存快取
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes   int64 `mapstructure:"max_size_bytes"`
	MaxWidth       int   `mapstructure:"max_width"`
	MaxHeight      int   `mapstructure:"max_height"`
	ValidateRemote bool  `mapstructure:"validate_remote"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（檔案不存在時沿用環境變數）
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("mongo.uri", "MONGODB_URI")
	viper.BindEnv("mongo.database", "MONGODB_DATABASE")
	viper.BindEnv("auth.secret", "JWT_SECRET")
	viper.BindEnv("auth.cookie_secure", "COOKIE_SECURE")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.redis_addr", "REDIS_ADDR")
	viper.BindEnv("image.validate_remote", "IMAGE_VALIDATE_REMOTE")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 生產環境自動開啟 secure cookie
	if config.App.Env == "production" {
		config.Auth.CookieSecure = true
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-box")

	// 伺服器設定
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// MongoDB 設定
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "recipesdb")
	viper.SetDefault("mongo.timeout", "10s")

	// 認證設定
	viper.SetDefault("auth.secret", "")
	viper.SetDefault("auth.token_ttl", "24h")
	viper.SetDefault("auth.signup_token_ttl", "168h") // 7 天
	viper.SetDefault("auth.cookie_secure", false)

	// 快取設定
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl", "30s")
	viper.SetDefault("cache.cleanup_interval", "10m")
	viper.SetDefault("cache.redis_addr", "")

	// 圖片設定
	viper.SetDefault("image.max_size_bytes", 10*1024*1024) // 10MB
	viper.SetDefault("image.max_width", 800)
	viper.SetDefault("image.max_height", 600)
	viper.SetDefault("image.validate_remote", false)
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證認證設定
	if config.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required (JWT_SECRET)")
	}
	if config.Auth.TokenTTL <= 0 || config.Auth.SignupTTL <= 0 {
		return fmt.Errorf("invalid token ttl")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證圖片設定
	if config.Image.MaxWidth <= 0 || config.Image.MaxHeight <= 0 {
		return fmt.Errorf("invalid image bounds")
	}

	return nil
}
