package front

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"kyri56xcaesar/abac-front/internal/logger"
)

type Config struct {
	ConfigPath string
	ApiGinMode string
	LogLevel   string

	Ip             string
	Port           string
	BackendURL     string
	APIKey         string
	RequestTimeout time.Duration

	SessionCookie string
	CookieSecure  bool

	TemplatesPath string
	StaticsPath   string

	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

func loadConfig(path string) Config {
	if err := godotenv.Load(path); err != nil {
		logger.Warnf("Failed to load the config file at %s, using default ones...", path)
	}

	s := strings.Split(path, "/")
	config := Config{
		ConfigPath: s[len(s)-1],
		ApiGinMode: getEnv("GIN_MODE", "debug"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		Ip:             getEnv("IP", "localhost"),
		Port:           getEnv("PORT", "3000"),
		BackendURL:     getEnv("BACKEND_URL", "http://localhost:8080"),
		APIKey:         getEnv("API_KEY", ""),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 0),

		SessionCookie: getEnv("SESSION_COOKIE", "token"),
		CookieSecure:  getBoolEnv("COOKIE_SECURE", "false"),

		TemplatesPath: getEnv("TEMPLATES_PATH", "./internal/front/web/templates"),
		StaticsPath:   getEnv("STATICS_PATH", "./internal/front/web/static"),

		AllowedOrigins: getEnvFields("ALLOW_ORIGINS", []string{"*"}),
		AllowedMethods: getEnvFields("ALLOW_METHODS", []string{"GET", "POST"}),
		AllowedHeaders: getEnvFields("ALLOW_HEADERS", []string{"Origin", "Content-Type", "Authorization"}),
	}

	if config.APIKey == "" {
		logger.Warnf("API_KEY is empty, the backend will reject every call")
	}

	return config
}

func getEnv(env, fallback string) string {
	if value, exists := os.LookupEnv(env); exists {
		return value
	}

	return fallback
}

func getEnvFields(env string, fallback []string) []string {
	if value, exists := os.LookupEnv(env); exists {
		fields := strings.Split(strings.TrimSpace(value), ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		return fields
	}

	return fallback
}

func getBoolEnv(env, fallback string) bool {
	if value, exists := os.LookupEnv(env); exists {
		return strings.ToLower(value) == "true"
	}

	return strings.ToLower(fallback) == "true"
}

// getDurationEnv accepts a Go duration ("30s") or a plain number of seconds.
func getDurationEnv(env string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(env)
	if !exists || value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	logger.Warnf("invalid %s=%q, using %v", env, value, fallback)

	return fallback
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}

	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

func (cfg *Config) toString() string {
	var strBuilder strings.Builder

	reflectedValues := reflect.ValueOf(cfg).Elem()
	reflectedTypes := reflect.TypeOf(cfg).Elem()

	strBuilder.WriteString(fmt.Sprintf("[CFG]CONFIGURATION: %s\n", cfg.ConfigPath))

	for i := range reflectedValues.NumField() {
		fieldName := reflectedTypes.Field(i).Name
		fieldValue := reflectedValues.Field(i).Interface()

		if fieldName == "APIKey" {
			fieldValue = maskSecret(cfg.APIKey)
		}

		strBuilder.WriteString("[CFG]")
		if i < 9 {
			strBuilder.WriteString(fmt.Sprintf("%d.  ", i+1))
		} else {
			strBuilder.WriteString(fmt.Sprintf("%d. ", i+1))
		}
		if len(fieldName) <= 6 {
			strBuilder.WriteString(fmt.Sprintf("%v\t\t\t\t-> %v\n", fieldName, fieldValue))
		} else if len(fieldName) <= 14 {
			strBuilder.WriteString(fmt.Sprintf("%v\t\t\t-> %v\n", fieldName, fieldValue))
		} else {
			strBuilder.WriteString(fmt.Sprintf("%v\t\t-> %v\n", fieldName, fieldValue))
		}
	}

	return strBuilder.String()
}
