package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 구조체 - 서버 레벨 환경변수를 담음
// (프로바이더 자격증명은 각 모듈의 config가 호출 시점에 직접 읽음)
type Config struct {
	// Server
	Port string

	// Session
	SessionBackend string // "cookie" or "redis"
	CookieSecure   bool

	// Redis
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Supabase (media archive, optional)
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	// Upload limits
	MaxUploadMB         int
	MaxReferenceSeconds int
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	// Redis UseTLS 파싱
	useTLS := true // 기본값
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	cookieSecure := false
	if secureStr := os.Getenv("COOKIE_SECURE"); secureStr != "" {
		if parsed, err := strconv.ParseBool(secureStr); err == nil {
			cookieSecure = parsed
		}
	}

	maxUploadMB := 50 // 기본값 (레퍼런스 업로드 상한)
	if sizeStr := os.Getenv("MAX_UPLOAD_MB"); sizeStr != "" {
		if parsed, err := strconv.Atoi(sizeStr); err == nil && parsed > 0 {
			maxUploadMB = parsed
		}
	}

	maxRefSeconds := 15 // 기본값 (레퍼런스 비디오 최대 길이)
	if secStr := os.Getenv("MAX_REFERENCE_SECONDS"); secStr != "" {
		if parsed, err := strconv.Atoi(secStr); err == nil && parsed > 0 {
			maxRefSeconds = parsed
		}
	}

	globalConfig = &Config{
		Port: getEnv("PORT", "8080"),

		SessionBackend: getEnv("SESSION_BACKEND", "cookie"),
		CookieSecure:   cookieSecure,

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", "imported-media"),

		MaxUploadMB:         maxUploadMB,
		MaxReferenceSeconds: maxRefSeconds,
	}

	// 필수 환경변수 검증
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Session backend: %s", globalConfig.SessionBackend)
	log.Printf("   Upload limit: %dMB, reference max: %ds", globalConfig.MaxUploadMB, globalConfig.MaxReferenceSeconds)
	if globalConfig.SupabaseURL != "" {
		log.Printf("   Supabase archive: %s (bucket: %s)", globalConfig.SupabaseURL, globalConfig.SupabaseBucket)
	}

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
	if c.SessionBackend != "cookie" && c.SessionBackend != "redis" {
		return fmt.Errorf("SESSION_BACKEND must be \"cookie\" or \"redis\", got %q", c.SessionBackend)
	}
	if c.SessionBackend == "redis" && c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required when SESSION_BACKEND=redis")
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

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
