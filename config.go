package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything the app needs to start. Values come from a
// config.yaml next to the binary and can be overridden with WTFTUBE_*
// environment variables; anything missing falls back to the dev defaults.
type Config struct {
	Port      int            `mapstructure:"port"`
	Env       string         `mapstructure:"env"`
	JWTSecret string         `mapstructure:"jwt_secret"`
	Database  PostgresConfig `mapstructure:"database"`
	Redis     RedisConfig    `mapstructure:"redis"`
	NATS      NATSConfig     `mapstructure:"nats"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// RedisConfig points at the channel-stats cache. An empty Addr disables
// caching entirely.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	StatsTTL int    `mapstructure:"stats_ttl_seconds"`
}

// NATSConfig points at the event broker. An empty URL disables publishing.
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

// LoadConfig reads config.yaml and the environment. In production the file
// is required and the app refuses to start on dev defaults.
func LoadConfig(prod bool) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("wtftube")
	v.AutomaticEnv()

	v.SetDefault("port", 1111)
	v.SetDefault("env", "dev")
	v.SetDefault("jwt_secret", "secret-random-string")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "wtf_tube")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.stats_ttl_seconds", 60)
	v.SetDefault("nats.url", "")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, fmt.Errorf("err reading config file: %w", err)
		}
		if prod {
			return Config{}, fmt.Errorf("config.yaml is required in production")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("err unmarshalling config: %w", err)
	}
	return c, nil
}
