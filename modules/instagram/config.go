package instagram

import "os"

const (
	defaultGraphBase = "https://graph.instagram.com"
	defaultOAuthBase = "https://api.instagram.com/oauth"
)

// OAuth 권한 범위 (Instagram API with Instagram Login)
const oauthScope = "instagram_business_basic,instagram_business_content_publish,instagram_business_manage_messages,instagram_business_manage_comments"

// Config - Instagram 앱 설정
// 자격증명은 호출 시점마다 환경변수에서 읽음 (캐시 없음)
type Config struct {
	AppID       string
	AppSecret   string
	RedirectURI string
	AppBaseURL  string // OAuth 콜백 후 돌아갈 앱 주소
	GraphBase   string
	OAuthBase   string
}

// LoadConfig - 환경변수에서 설정 로드
func LoadConfig() *Config {
	graphBase := os.Getenv("INSTAGRAM_GRAPH_API_BASE")
	if graphBase == "" {
		graphBase = defaultGraphBase
	}
	oauthBase := os.Getenv("INSTAGRAM_OAUTH_BASE")
	if oauthBase == "" {
		oauthBase = defaultOAuthBase
	}

	return &Config{
		AppID:       os.Getenv("INSTAGRAM_APP_ID"),
		AppSecret:   os.Getenv("INSTAGRAM_APP_SECRET"),
		RedirectURI: os.Getenv("INSTAGRAM_REDIRECT_URI"),
		AppBaseURL:  os.Getenv("APP_BASE_URL"),
		GraphBase:   graphBase,
		OAuthBase:   oauthBase,
	}
}
