package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Service - Instagram OAuth + Graph API 서비스
// 재시도 없음 - 재시도는 호출자 책임
type Service struct {
	httpClient     *http.Client
	downloadClient *http.Client
}

// NewService - Service 생성
func NewService() *Service {
	return &Service{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// 비디오 다운로드는 오래 걸릴 수 있음
		downloadClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// AuthorizationURL - OAuth 인가 리다이렉트 URL 생성
func (s *Service) AuthorizationURL() (string, error) {
	cfg := LoadConfig()
	if cfg.AppID == "" || cfg.RedirectURI == "" {
		return "", &ConfigurationError{Missing: "INSTAGRAM_APP_ID / INSTAGRAM_REDIRECT_URI"}
	}

	params := url.Values{}
	params.Set("client_id", cfg.AppID)
	params.Set("redirect_uri", cfg.RedirectURI)
	params.Set("scope", oauthScope)
	params.Set("response_type", "code")

	return cfg.OAuthBase + "/authorize?" + params.Encode(), nil
}

// ExchangeCode - 인가 코드를 액세스 토큰으로 교환
func (s *Service) ExchangeCode(ctx context.Context, code string) (*AuthTokens, error) {
	cfg := LoadConfig()
	if cfg.AppID == "" || cfg.AppSecret == "" || cfg.RedirectURI == "" {
		return nil, &ConfigurationError{Missing: "Instagram app credentials"}
	}

	params := url.Values{}
	params.Set("client_id", cfg.AppID)
	params.Set("client_secret", cfg.AppSecret)
	params.Set("grant_type", "authorization_code")
	params.Set("redirect_uri", cfg.RedirectURI)
	params.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, "POST", cfg.OAuthBase+"/access_token", strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	log.Println("🔑 [Instagram] Exchanging authorization code for access token...")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errBody oauthErrorBody
		json.Unmarshal(body, &errBody)
		message := errBody.ErrorMessage
		if message == "" {
			message = "Failed to exchange code for token"
		}
		return nil, &APIError{Message: message, StatusCode: resp.StatusCode, Code: errBody.ErrorType}
	}

	var tokens AuthTokens
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	log.Println("✅ [Instagram] Access token obtained")
	return &tokens, nil
}

// graphGet - Graph API 인증 GET 공통 처리
func (s *Service) graphGet(ctx context.Context, path string, params url.Values, fallbackMsg string, out interface{}) error {
	cfg := LoadConfig()

	req, err := http.NewRequestWithContext(ctx, "GET", cfg.GraphBase+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errBody graphErrorBody
		json.Unmarshal(body, &errBody)
		message := errBody.Error.Message
		if message == "" {
			message = fallbackMsg
		}
		return &APIError{Message: message, StatusCode: resp.StatusCode, Code: errBody.Error.Type}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// GetUser - 사용자 프로필 조회
func (s *Service) GetUser(ctx context.Context, accessToken string) (*User, error) {
	params := url.Values{}
	params.Set("fields", "id,username,account_type")
	params.Set("access_token", accessToken)

	var user User
	if err := s.graphGet(ctx, "/me", params, "Failed to fetch user profile", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListMedia - 사용자 미디어 목록 조회 (커서 페이지네이션)
func (s *Service) ListMedia(ctx context.Context, accessToken string, limit int, after string) (*MediaListResponse, error) {
	params := url.Values{}
	params.Set("fields", "id,media_type,media_url,thumbnail_url,caption,timestamp,permalink,username")
	params.Set("access_token", accessToken)
	params.Set("limit", strconv.Itoa(limit))
	if after != "" {
		params.Set("after", after)
	}

	var list MediaListResponse
	if err := s.graphGet(ctx, "/me/media", params, "Failed to fetch media", &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetMediaByID - 특정 미디어 아이템 조회
func (s *Service) GetMediaByID(ctx context.Context, mediaID, accessToken string) (*Media, error) {
	params := url.Values{}
	params.Set("fields", "id,media_type,media_url,thumbnail_url,caption,timestamp,permalink,username")
	params.Set("access_token", accessToken)

	var media Media
	if err := s.graphGet(ctx, "/"+mediaID, params, "Failed to fetch media", &media); err != nil {
		return nil, err
	}
	return &media, nil
}

// DownloadMedia - media_url에서 비디오 다운로드
// 서명 링크는 수 시간 내 만료되므로 조회 직후 바로 호출할 것
func (s *Service) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Message: "Failed to download video from Instagram", StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read video data: %w", err)
	}

	log.Printf("✅ [Instagram] Video downloaded: %d bytes", len(data))
	return data, nil
}

// RefreshAccessToken - 장기 토큰 갱신 (60일 수명)
func (s *Service) RefreshAccessToken(ctx context.Context, accessToken string) (*AuthTokens, error) {
	params := url.Values{}
	params.Set("grant_type", "ig_refresh_token")
	params.Set("access_token", accessToken)

	var tokens AuthTokens
	if err := s.graphGet(ctx, "/refresh_access_token", params, "Failed to refresh token", &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}
