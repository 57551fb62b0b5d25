package environments

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Store     StoreConfig
	Gateway   GatewayConfig
	Dispatch  DispatchConfig
	Recording RecordingConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type StoreConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Timeout  time.Duration
}

type GatewayConfig struct {
	URL     string
	AuthKey string
	Timeout time.Duration
}

type DispatchConfig struct {
	CallDelay        time.Duration
	SMSDelay         time.Duration
	WhatsAppDelay    time.Duration
	BroadcastStagger time.Duration
}

type RecordingConfig struct {
	Dir string
}

type AuthConfig struct {
	DispatchAPIKey string
	AttemptsAPIKey string
	JWTSecret      string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: GetEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			Port:     GetEnv("DB_PORT", "3306"),
			User:     GetEnv("DB_USER", "outreach"),
			Password: GetEnv("DB_PASSWORD", "outreach123"),
			DBName:   GetEnv("DB_NAME", "outreach_attempts"),
		},
		Store: StoreConfig{
			Host:     GetEnv("STORE_HOST", "localhost"),
			Port:     GetEnv("STORE_PORT", "6379"),
			Password: GetEnv("STORE_PASSWORD", ""),
			DB:       GetEnvAsInt("STORE_DB", 0),
			Timeout:  GetEnvAsDuration("STORE_TIMEOUT", 3*time.Second),
		},
		Gateway: GatewayConfig{
			URL:     GetEnv("GATEWAY_URL", "http://localhost:9090"),
			AuthKey: GetEnv("GATEWAY_AUTH_KEY", ""),
			Timeout: time.Duration(GetEnvAsInt("GATEWAY_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Dispatch: DispatchConfig{
			CallDelay:        GetEnvAsDuration("DISPATCH_CALL_DELAY", 10*time.Second),
			SMSDelay:         GetEnvAsDuration("DISPATCH_SMS_DELAY", 5*time.Second),
			WhatsAppDelay:    GetEnvAsDuration("DISPATCH_WHATSAPP_DELAY", 5*time.Second),
			BroadcastStagger: GetEnvAsDuration("DISPATCH_BROADCAST_STAGGER", 500*time.Millisecond),
		},
		Recording: RecordingConfig{
			Dir: GetEnv("RECORDING_DIR", "./recordings"),
		},
		Auth: AuthConfig{
			DispatchAPIKey: GetEnv("DISPATCH_API_KEY", ""),
			AttemptsAPIKey: GetEnv("ATTEMPTS_API_KEY", ""),
			JWTSecret:      GetEnv("JWT_SECRET", ""),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
