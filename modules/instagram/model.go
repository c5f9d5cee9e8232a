package instagram

import "fmt"

// ConfigurationError - 배포 시크릿 누락
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return e.Missing + " is not configured"
}

// APIError - Instagram API 비성공 응답
type APIError struct {
	Message    string
	StatusCode int
	Code       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("Instagram API error (%d): %s", e.StatusCode, e.Message)
	}
	return "Instagram API error: " + e.Message
}

// AuthTokens - OAuth 토큰 교환 응답
type AuthTokens struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

// User - 사용자 프로필
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	AccountType string `json:"account_type,omitempty"` // BUSINESS, MEDIA_CREATOR, PERSONAL
}

// Media - 미디어 아이템
// MediaURL은 수 시간 내 만료되는 서명 링크 - 세션을 넘겨 캐시하지 말 것
type Media struct {
	ID           string `json:"id"`
	MediaType    string `json:"media_type"` // IMAGE, VIDEO, CAROUSEL_ALBUM
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Caption      string `json:"caption,omitempty"`
	Timestamp    string `json:"timestamp"`
	Permalink    string `json:"permalink"`
	Username     string `json:"username,omitempty"`
}

// MediaListResponse - 미디어 목록 페이지
type MediaListResponse struct {
	Data   []Media `json:"data"`
	Paging *Paging `json:"paging,omitempty"`
}

// Paging - 커서 기반 페이지네이션
type Paging struct {
	Cursors *Cursors `json:"cursors,omitempty"`
	Next    string   `json:"next,omitempty"`
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// oauthErrorBody - OAuth 엔드포인트 에러 응답
type oauthErrorBody struct {
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
}

// graphErrorBody - Graph API 에러 응답
type graphErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
