package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Auth      AuthConfig      `mapstructure:"auth"`
	NLU       NLUConfig       `mapstructure:"nlu"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
}

type MongoConfig struct {
	URI      string        `mapstructure:"uri"`
	Database string        `mapstructure:"database"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type NLUConfig struct {
	DefaultProvider string       `mapstructure:"default_provider"`
	Gemini          GeminiConfig `mapstructure:"gemini"`
	OpenAI          OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// ProvidersConfig configures the external data sources the assembly
// pipeline aggregates from
type ProvidersConfig struct {
	GeoURL         string        `mapstructure:"geo_url"`
	WeatherURL     string        `mapstructure:"weather_url"`
	RouteURL       string        `mapstructure:"route_url"`
	AttractionsURL string        `mapstructure:"attractions_url"`
	StaysURL       string        `mapstructure:"stays_url"`
	EventsURL      string        `mapstructure:"events_url"`
	APIKey         string        `mapstructure:"api_key"`
	Timeout        time.Duration `mapstructure:"timeout"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	DefaultOrigin  string        `mapstructure:"default_origin"`
	Currency       string        `mapstructure:"currency"`
}

type ChatConfig struct {
	RetentionLimit  int           `mapstructure:"retention_limit"`
	StateTTL        time.Duration `mapstructure:"state_ttl"`
	AssemblyTimeout time.Duration `mapstructure:"assembly_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.middleware_timeout", "60s")

	// Mongo
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "tripmind")
	v.SetDefault("mongo.timeout", "10s")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// NATS
	v.SetDefault("nats.url", "nats://localhost:4222")

	// Auth
	v.SetDefault("auth.access_token_ttl", "15m")

	// NLU
	v.SetDefault("nlu.default_provider", "gemini")
	v.SetDefault("nlu.gemini.model", "gemini-2.5-flash")
	v.SetDefault("nlu.openai.model", "gpt-4o-mini")

	// Providers
	v.SetDefault("providers.geo_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("providers.weather_url", "https://api.open-meteo.com")
	v.SetDefault("providers.route_url", "https://router.project-osrm.org")
	v.SetDefault("providers.attractions_url", "https://api.opentripmap.com")
	v.SetDefault("providers.timeout", "10s")
	v.SetDefault("providers.cache_ttl", "10m")
	v.SetDefault("providers.default_origin", "New Delhi")
	v.SetDefault("providers.currency", "INR")

	// Chat
	v.SetDefault("chat.retention_limit", 50)
	v.SetDefault("chat.state_ttl", "30m")
	v.SetDefault("chat.assembly_timeout", "120s")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	// Mongo
	v.BindEnv("mongo.uri", "MONGO_URI")

	// Redis
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// NATS
	v.BindEnv("nats.url", "NATS_URL")
	v.BindEnv("nats.token", "NATS_TOKEN")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")

	// NLU API keys
	v.BindEnv("nlu.gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("nlu.openai.api_key", "OPENAI_API_KEY")

	// Data providers
	v.BindEnv("providers.api_key", "PROVIDERS_API_KEY")
}
