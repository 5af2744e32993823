package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultEnv           = "local"
	defaultConfigDir     = ".punchclock"
	defaultDevice        = "web"
)

type Config struct {
	Env             string `mapstructure:"app_env"`
	ServerAddress   string `mapstructure:"server_address"`
	LogLevel        string `mapstructure:"log_level"`
	UserID          string `mapstructure:"user_id"`
	Token           string `mapstructure:"api_token"`
	Device          string `mapstructure:"device"`
	ConfigDir       string `mapstructure:"config_dir"`
	QueuePath       string `mapstructure:"queue_path"`
	SyncInterval    int    `mapstructure:"sync_interval_seconds"`
	ProbeInterval   int    `mapstructure:"probe_interval_seconds"`
	EnableTLS       bool   `mapstructure:"enable_tls"`
	LocationLat     float64
	LocationLong    float64
	LocationAddress string
	HasLocation     bool
}

// MustLoad loads the client configuration from .env and environment
// variables, computing data paths under the user's home directory.
func MustLoad() *Config {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("failed to load .env file: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("DEVICE", defaultDevice)
	viper.SetDefault("SYNC_INTERVAL_SECONDS", 30)
	viper.SetDefault("PROBE_INTERVAL_SECONDS", 15)
	viper.SetDefault("ENABLE_TLS", false)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("failed to create config directory: %v\n", err)
	}

	queuePath := viper.GetString("QUEUE_PATH")
	if queuePath == "" {
		queuePath = filepath.Join(configDir, "queue.db")
	}

	config := &Config{
		Env:           viper.GetString("APP_ENV"),
		ServerAddress: viper.GetString("SERVER_ADDRESS"),
		LogLevel:      viper.GetString("LOG_LEVEL"),
		UserID:        viper.GetString("USER_ID"),
		Token:         viper.GetString("API_TOKEN"),
		Device:        viper.GetString("DEVICE"),
		ConfigDir:     configDir,
		QueuePath:     queuePath,
		SyncInterval:  viper.GetInt("SYNC_INTERVAL_SECONDS"),
		ProbeInterval: viper.GetInt("PROBE_INTERVAL_SECONDS"),
		EnableTLS:     viper.GetBool("ENABLE_TLS"),
	}

	// Fixed-position devices (totems, QR kiosks) carry their location
	// in the environment instead of querying a positioning service.
	if viper.IsSet("LOCATION_LAT") && viper.IsSet("LOCATION_LONG") {
		config.LocationLat = viper.GetFloat64("LOCATION_LAT")
		config.LocationLong = viper.GetFloat64("LOCATION_LONG")
		config.LocationAddress = viper.GetString("LOCATION_ADDRESS")
		config.HasLocation = true
	}

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	return config
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address must not be empty")
	}
	return nil
}

// IsProd reports whether the environment is prod.
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}
