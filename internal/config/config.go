package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию для Adventure Server
type Config struct {
	// Настройки сервера
	Port             string   `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel         string   `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding      string   `envconfig:"LOG_ENCODING" default:"json"`
	CORSAllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`

	// Настройки AI (OpenRouter / Ollama)
	AIClientType  string        `envconfig:"AI_CLIENT_TYPE" default:"openai"`
	AIBaseURL     string        `envconfig:"AI_BASE_URL" default:"https://openrouter.ai/api/v1"`
	AIModel       string        `envconfig:"AI_MODEL" default:"deepseek/deepseek-chat"`
	AITimeout     time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	AITemperature float64       `envconfig:"AI_TEMPERATURE" default:"0.8"`
	AIMaxTokens   int           `envconfig:"AI_MAX_TOKENS" default:"1024"`
	AITopP        float64       `envconfig:"AI_TOP_P" default:"0.95"`
	// Ключ может отсутствовать: тогда сессия стартует в деградированном
	// режиме и запросы к бэкенду не выполняются.
	AIAPIKey string `envconfig:"AI_API_KEY"`

	// Настройки сервера генерации изображений
	ImageServerBaseURL string        `envconfig:"IMAGE_SERVER_BASE_URL"`
	ImageServerTimeout time.Duration `envconfig:"IMAGE_SERVER_TIMEOUT" default:"120s"`
	ImageRatio         string        `envconfig:"IMAGE_RATIO" default:"2:3"`
	PromptStyleSuffix  string        `envconfig:"IMAGE_PROMPT_STYLE_SUFFIX" default:", a stylized illustration of a story scene in moody, atmospheric lighting, soft shadows, minimal background, cohesive color grading"`
}

// AIConfigured сообщает, задан ли бэкенд генерации. Для openai-совместимых
// провайдеров обязателен API ключ, для локального ollama достаточно URL.
func (c *Config) AIConfigured() bool {
	switch strings.ToLower(c.AIClientType) {
	case "ollama":
		return strings.TrimSpace(c.AIBaseURL) != ""
	default:
		return strings.TrimSpace(c.AIAPIKey) != ""
	}
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации adventure-server: %w", err)
	}

	log.Printf("Конфигурация Adventure Server загружена:")
	log.Printf("  Port: %s", cfg.Port)
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  AI Client Type: %s", cfg.AIClientType)
	log.Printf("  AI Base URL: %s", cfg.AIBaseURL)
	log.Printf("  AI Model: %s", cfg.AIModel)
	log.Printf("  AI Timeout: %v", cfg.AITimeout)
	if cfg.AIAPIKey != "" {
		log.Println("  AI API Key: [ЗАГРУЖЕН]")
	} else {
		log.Println("  AI API Key: [ОТСУТСТВУЕТ]")
	}
	log.Printf("  Image Server Base URL: %s", cfg.ImageServerBaseURL)
	log.Printf("  Image Server Timeout: %v", cfg.ImageServerTimeout)
	log.Printf("  Image Ratio: %s", cfg.ImageRatio)

	return &cfg, nil
}
