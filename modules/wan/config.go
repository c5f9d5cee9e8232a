package wan

import (
	"os"
	"strings"
)

// 리전별 베이스 URL
var regionURLs = map[string]string{
	"us":   "https://dashscope-us.aliyuncs.com/api/v1",
	"intl": "https://dashscope-intl.aliyuncs.com/api/v1",
	"cn":   "https://dashscope.aliyuncs.com/api/v1",
}

// Config - Wan (DashScope) API 설정
type Config struct {
	APIKey  string
	BaseURL string
}

// ConfigurationError - 배포 시크릿 누락
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return e.Missing + " environment variable is not set"
}

// LoadConfig - 환경변수에서 설정 로드
// 스펙상 자격증명은 호출 시점마다 읽고 캐시하지 않는다
func LoadConfig() (*Config, error) {
	apiKey := os.Getenv("DASHSCOPE_API_KEY")
	if apiKey == "" {
		return nil, &ConfigurationError{Missing: "DASHSCOPE_API_KEY"}
	}

	baseURL := os.Getenv("DASHSCOPE_BASE_URL")
	if baseURL == "" {
		region := os.Getenv("DASHSCOPE_REGION")
		var ok bool
		if baseURL, ok = regionURLs[region]; !ok {
			baseURL = regionURLs["us"]
		}
	}

	return &Config{
		// 실수로 들어간 공백 제거
		APIKey:  strings.TrimSpace(apiKey),
		BaseURL: baseURL,
	}, nil
}
