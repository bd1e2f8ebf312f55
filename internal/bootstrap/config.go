package bootstrap

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort     string        `mapstructure:"SERVER_PORT"`
	AllowedOrigins string        `mapstructure:"ALLOWED_ORIGINS"`
	RedisUrl       string        `mapstructure:"REDIS_URL"`
	MongoUri       string        `mapstructure:"MONGO_URI"`
	MongoDatabase  string        `mapstructure:"MONGO_DATABASE"`
	ClockSeconds   int           `mapstructure:"CLOCK_SECONDS"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
	LogDevelopment bool          `mapstructure:"LOG_DEVELOPMENT"`
}

var defaults = map[string]any{
	"SERVER_PORT":     "3000",
	"ALLOWED_ORIGINS": "http://localhost:5173",
	"REDIS_URL":       "",
	"MONGO_URI":       "",
	"MONGO_DATABASE":  "chess",
	"CLOCK_SECONDS":   600,
	"SESSION_TTL":     "24h",
	"LOG_DEVELOPMENT": false,
}

// Setup loads the optional env file at cfgPath into the process environment
// and reads the configuration from the environment over built-in defaults.
func Setup(cfgPath string) (*Config, error) {
	if cfgPath != "" {
		if err := godotenv.Load(cfgPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) ClockTime() time.Duration {
	return time.Duration(c.ClockSeconds) * time.Second
}

func (c Config) ListenAddr() string {
	return ":" + c.ServerPort
}
