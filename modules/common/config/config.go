package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - 모든 환경변수를 담음
type Config struct {
	// Redis
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Supabase
	SupabaseURL            string
	SupabaseServiceKey     string
	SupabaseStorageBaseURL string

	// Gemini API
	GeminiAPIKeys   []string
	GeminiModel     string // standard model (2K/4K tiers)
	GeminiModelFast string // fast model (1K tier)
	RequestTimeout  time.Duration

	// Server
	Port string

	// Credit
	ImagePerPrice int

	// Guest limit
	MaxGuestGenerations int

	// Recommendation
	TrendingStyles []string
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	useTLS := true
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	imagePerPrice := 5
	if priceStr := os.Getenv("IMAGE_PER_PRICE"); priceStr != "" {
		if parsed, err := strconv.Atoi(priceStr); err == nil {
			imagePerPrice = parsed
		}
	}

	maxGuest := 2
	if guestStr := os.Getenv("MAX_GUEST_GENERATIONS"); guestStr != "" {
		if parsed, err := strconv.Atoi(guestStr); err == nil {
			maxGuest = parsed
		}
	}

	timeout := 120 * time.Second
	if timeoutStr := os.Getenv("REQUEST_TIMEOUT_SECONDS"); timeoutStr != "" {
		if parsed, err := strconv.Atoi(timeoutStr); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}

	globalConfig = &Config{
		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		// Supabase
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:     getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBaseURL: getEnv("SUPABASE_STORAGE_BASE_URL", ""),

		// Gemini API
		GeminiAPIKeys:   parseAPIKeys(os.Getenv("GEMINI_API_KEYS"), os.Getenv("GEMINI_API_KEY")),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiModelFast: getEnv("GEMINI_MODEL_FAST", "gemini-2.0-flash-preview-image-generation"),
		RequestTimeout:  timeout,

		// Server
		Port: getEnv("PORT", "8080"),

		// Credit
		ImagePerPrice: imagePerPrice,

		// Guest limit
		MaxGuestGenerations: maxGuest,

		// Recommendation
		TrendingStyles: parseList(getEnv("TRENDING_STYLES", "简约风,复古风,甜美风,运动风,可爱风")),
	}

	// 필수 환경변수 검증
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Redis: %s:%s (TLS: %v)", globalConfig.RedisHost, globalConfig.RedisPort, globalConfig.RedisUseTLS)
	log.Printf("   Supabase: %s", globalConfig.SupabaseURL)
	log.Printf("   Gemini: %s / %s (keys: %d)", globalConfig.GeminiModel, globalConfig.GeminiModelFast, len(globalConfig.GeminiAPIKeys))
	log.Printf("   Credit: %d per image", globalConfig.ImagePerPrice)

	return globalConfig, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if len(c.GeminiAPIKeys) == 0 {
		return fmt.Errorf("GEMINI_API_KEY or GEMINI_API_KEYS is required")
	}
	return nil
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseAPIKeys - 쉼표 구분 키 목록 + 단일 키 폴백
func parseAPIKeys(multi, single string) []string {
	keys := parseList(multi)
	if len(keys) == 0 && single != "" {
		keys = []string{single}
	}
	return keys
}

func parseList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
