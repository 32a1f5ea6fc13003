package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"creator-ops/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Logger      Logger      `json:"logger"`
	Google      Google      `json:"google"`
	Security    Security    `json:"security"`
	OpenAI      OpenAI      `json:"openai"`
	Sync        Sync        `json:"sync"`
	Events      Events      `json:"events"`
}

type App struct {
	Name           string   `json:"name"`
	Port           int      `json:"port"`
	SecretKey      string   `json:"secretKey"`
	TLSEnabled     bool     `json:"tlsEnabled"`
	TLSCertFile    string   `json:"tlsCertFile"`
	TLSKeyFile     string   `json:"tlsKeyFile"`
	FrontendURL    string   `json:"frontendURL"`
	PublicBaseURL  string   `json:"publicBaseURL"`
	AllowedOrigins []string `json:"allowedOrigins"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
	URL      string `json:"url"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
}

type Logger struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

type Google struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// Security holds the token key ring. TokenKeys is "kid:base64secret,kid2:base64secret".
type Security struct {
	TokenKeys    string `json:"tokenKeys"`
	PrimaryKeyID string `json:"primaryKeyId"`
	LegacyKey    string `json:"legacyKey"`
}

type OpenAI struct {
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
	BaseURL string `json:"baseURL"`
}

type Sync struct {
	MaxVideos        int `json:"maxVideos"`
	CommentVideos    int `json:"commentVideos"`
	MaxMessages      int `json:"maxMessages"`
	TokenSkewSeconds int `json:"tokenSkewSeconds"`
}

type Events struct {
	Driver     string     `json:"driver"` // "", pubsub, servicebus
	Pubsub     Pubsub     `json:"pubsub"`
	ServiceBus ServiceBus `json:"serviceBus"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace        string `json:"namespace"`
	ConnectionString string `json:"connectionString"`
	Queue            string `json:"queue"`
}

var C Config

func init() {
	LoadEnvFromFile(".env", "config.env")
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initIntegrations(&C)
	logger.Configure(C.Logger.Level, C.Logger.Format)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("$HOME")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	C.Database.Psql.URL = getConfigValue(C.Database.Psql.URL, "DATABASE_URL", "")
	C.Database.Psql.Name = getConfigValue(C.Database.Psql.Name, "DB_NAME", "creator_ops")
	C.Database.Psql.Host = getConfigValue(C.Database.Psql.Host, "DB_HOST", "localhost")
	C.Database.Psql.Port = getConfigValue(C.Database.Psql.Port, "DB_PORT", "5432")
	C.Database.Psql.User = getConfigValue(C.Database.Psql.User, "DB_USER", "postgres")
	C.Database.Psql.Password = getConfigValue(C.Database.Psql.Password, "DB_PASSWORD", "")
	C.Database.Psql.SSLMode = getConfigValue(C.Database.Psql.SSLMode, "DB_SSLMODE", "disable")

	C.RedisClient.Host = getConfigValue(C.RedisClient.Host, "REDIS_HOST", "")
	C.RedisClient.Port = getConfigValue(C.RedisClient.Port, "REDIS_PORT", "6379")
	C.RedisClient.Password = getConfigValue(C.RedisClient.Password, "REDIS_PASSWORD", "")
	logger.GetLogger().WithFields(map[string]interface{}{
		"host": C.Database.Psql.Host,
		"name": C.Database.Psql.Name,
	}).Info("Database configuration")
}

func initApp(C *Config) {
	// SECRET_KEY verifies session tokens and signs OAuth state; env wins over the file.
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order: APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			C.App.TLSEnabled = b
		}
	}
	C.App.TLSCertFile = getConfigValue(C.App.TLSCertFile, "TLS_CERT_FILE", "")
	C.App.TLSKeyFile = getConfigValue(C.App.TLSKeyFile, "TLS_KEY_FILE", "")

	scheme := "http"
	if C.App.TLSEnabled {
		scheme = "https"
	}
	C.App.FrontendURL = strings.TrimRight(getConfigValue(C.App.FrontendURL, "FRONTEND_URL", "http://localhost:5173"), "/")
	C.App.PublicBaseURL = strings.TrimRight(getConfigValue(C.App.PublicBaseURL, "PUBLIC_BASE_URL", fmt.Sprintf("%s://localhost:%d", scheme, C.App.Port)), "/")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		C.App.AllowedOrigins = splitList(v)
	}
	if len(C.App.AllowedOrigins) == 0 {
		C.App.AllowedOrigins = []string{C.App.FrontendURL}
	}

	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initIntegrations(C *Config) {
	C.Google.ClientID = getConfigValue(C.Google.ClientID, "GOOGLE_CLIENT_ID", "")
	C.Google.ClientSecret = getConfigValue(C.Google.ClientSecret, "GOOGLE_CLIENT_SECRET", "")

	C.Security.TokenKeys = getConfigValue(C.Security.TokenKeys, "TOKEN_ENCRYPTION_KEYS", "")
	C.Security.PrimaryKeyID = getConfigValue(C.Security.PrimaryKeyID, "TOKEN_PRIMARY_KEY_ID", "")
	C.Security.LegacyKey = getConfigValue(C.Security.LegacyKey, "ENCRYPTION_KEY", "")

	C.OpenAI.APIKey = getConfigValue(C.OpenAI.APIKey, "OPENAI_API_KEY", "")
	C.OpenAI.Model = getConfigValue(C.OpenAI.Model, "OPENAI_MODEL", "gpt-4o-mini")
	C.OpenAI.BaseURL = getConfigValue(C.OpenAI.BaseURL, "OPENAI_BASE_URL", "")

	if C.Sync.MaxVideos <= 0 {
		C.Sync.MaxVideos = 500
	}
	if C.Sync.CommentVideos <= 0 {
		C.Sync.CommentVideos = 10
	}
	if C.Sync.MaxMessages <= 0 {
		C.Sync.MaxMessages = 20
	}
	if C.Sync.TokenSkewSeconds <= 0 {
		C.Sync.TokenSkewSeconds = 60
	}

	C.Events.Driver = getConfigValue(C.Events.Driver, "EVENTS_DRIVER", "")
	C.Events.Pubsub.ProjectID = getConfigValue(C.Events.Pubsub.ProjectID, "PUBSUB_PROJECT_ID", "")
	C.Events.Pubsub.Topic = getConfigValue(C.Events.Pubsub.Topic, "PUBSUB_TOPIC", "creator-sync-events")
	C.Events.ServiceBus.Namespace = getConfigValue(C.Events.ServiceBus.Namespace, "SERVICEBUS_NAMESPACE", "")
	C.Events.ServiceBus.ConnectionString = getConfigValue(C.Events.ServiceBus.ConnectionString, "SERVICEBUS_CONNECTION_STRING", "")
	C.Events.ServiceBus.Queue = getConfigValue(C.Events.ServiceBus.Queue, "SERVICEBUS_QUEUE", "creator-sync-events")
}

// PostgresDSN builds a lib/pq connection string, preferring an explicit URL.
func (d Db) PostgresDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// getConfigValue gets value from the environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
