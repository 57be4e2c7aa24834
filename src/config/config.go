package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Service         ServiceConfig        `mapstructure:"service"`
	Databases       DatabasesConfig      `mapstructure:"databases"`
	ExternalClients ExternalClientConfig `mapstructure:"externalClients"`
	Auth            AuthConfig           `mapstructure:"auth"`
	Logging         LoggingConfig        `mapstructure:"logging"`
	Scheduler       SchedulerConfig      `mapstructure:"scheduler"`
}

type ServiceConfig struct {
	Port string `mapstructure:"port"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLConfig struct {
	// Driver is "sqlite3" or "postgres".
	Driver           string `mapstructure:"driver"`
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

type ExternalClientConfig struct {
	MarketData MarketDataConfig `mapstructure:"marketData"`
	Ollama     OllamaConfig     `mapstructure:"ollama"`
}

type MarketDataConfig struct {
	BaseURL string `mapstructure:"baseUrl"`
}

type OllamaConfig struct {
	BaseURL        string `mapstructure:"baseUrl"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

type AuthConfig struct {
	// TokenSecret signs the HS256 tokens. When SecretName is set the value
	// is fetched from AWS Secrets Manager at startup instead.
	TokenSecret   string `mapstructure:"tokenSecret"`
	SecretName    string `mapstructure:"secretName"`
	SecretRegion  string `mapstructure:"secretRegion"`
	TokenTTLHours int    `mapstructure:"tokenTtlHours"`
}

type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	LogToFile bool   `mapstructure:"logToFile"`
	FilePath  string `mapstructure:"filePath"`
}

type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CronSpec string `mapstructure:"cronSpec"`
}

func LoadConfig(path string) (*Config, error) {
	var cfg Config

	viper.AddConfigPath(path)
	viper.SetConfigName("appsettings")
	viper.SetConfigType("yaml")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}
	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Databases.SQL.Driver == "" {
		cfg.Databases.SQL.Driver = "sqlite3"
	}
	if cfg.Auth.TokenTTLHours <= 0 {
		cfg.Auth.TokenTTLHours = 24
	}
	return &cfg, nil
}
