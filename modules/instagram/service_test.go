package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("INSTAGRAM_APP_ID", "1234567890")
	t.Setenv("INSTAGRAM_APP_SECRET", "shh-secret")
	t.Setenv("INSTAGRAM_REDIRECT_URI", "https://app.example.com/api/instagram/auth/callback")
}

func TestAuthorizationURL(t *testing.T) {
	setTestCredentials(t)

	authURL, err := NewService().AuthorizationURL()
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "/oauth/authorize", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "1234567890", query.Get("client_id"))
	assert.Equal(t, "https://app.example.com/api/instagram/auth/callback", query.Get("redirect_uri"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Contains(t, query.Get("scope"), "instagram_business_basic")
}

func TestAuthorizationURLMissingCredentials(t *testing.T) {
	t.Setenv("INSTAGRAM_APP_ID", "")
	t.Setenv("INSTAGRAM_REDIRECT_URI", "")

	_, err := NewService().AuthorizationURL()
	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, configErr.Error(), "not configured")
}

func TestExchangeCode(t *testing.T) {
	var gotForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/oauth/access_token", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "IGQVJ-fresh-token",
			"user_id":      "178414123",
		})
	}))
	defer server.Close()

	setTestCredentials(t)
	t.Setenv("INSTAGRAM_OAUTH_BASE", server.URL+"/oauth")

	tokens, err := NewService().ExchangeCode(context.Background(), "auth-code-abc")
	require.NoError(t, err)

	assert.Equal(t, "IGQVJ-fresh-token", tokens.AccessToken)
	assert.Equal(t, "178414123", tokens.UserID)

	assert.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	assert.Equal(t, "auth-code-abc", gotForm.Get("code"))
	assert.Equal(t, "1234567890", gotForm.Get("client_id"))
	assert.Equal(t, "shh-secret", gotForm.Get("client_secret"))
}

func TestExchangeCodeOAuthErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error_type":    "OAuthException",
			"error_message": "Invalid authorization code",
		})
	}))
	defer server.Close()

	setTestCredentials(t)
	t.Setenv("INSTAGRAM_OAUTH_BASE", server.URL+"/oauth")

	_, err := NewService().ExchangeCode(context.Background(), "expired-code")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid authorization code", apiErr.Message)
	assert.Equal(t, "OAuthException", apiErr.Code)
}

func TestExchangeCodeMissingCredentials(t *testing.T) {
	t.Setenv("INSTAGRAM_APP_ID", "")
	t.Setenv("INSTAGRAM_APP_SECRET", "")
	t.Setenv("INSTAGRAM_REDIRECT_URI", "")

	_, err := NewService().ExchangeCode(context.Background(), "some-code")
	var configErr *ConfigurationError
	assert.ErrorAs(t, err, &configErr)
}

func TestGetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me", r.URL.Path)
		require.Equal(t, "token-123", r.URL.Query().Get("access_token"))
		assert.Contains(t, r.URL.Query().Get("fields"), "username")

		json.NewEncoder(w).Encode(map[string]string{
			"id":           "178414123",
			"username":     "creator.studio",
			"account_type": "MEDIA_CREATOR",
		})
	}))
	defer server.Close()

	t.Setenv("INSTAGRAM_GRAPH_API_BASE", server.URL)

	user, err := NewService().GetUser(context.Background(), "token-123")
	require.NoError(t, err)
	assert.Equal(t, "creator.studio", user.Username)
	assert.Equal(t, "MEDIA_CREATOR", user.AccountType)
}

func TestListMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me/media", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "cursor-after", r.URL.Query().Get("after"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"id": "m1", "media_type": "VIDEO", "media_url": "https://cdn/v1.mp4", "timestamp": "2026-08-30T12:00:00+0000", "permalink": "https://instagram.com/p/1"},
				{"id": "m2", "media_type": "IMAGE", "media_url": "https://cdn/i1.jpg", "timestamp": "2026-08-29T12:00:00+0000", "permalink": "https://instagram.com/p/2"},
			},
			"paging": map[string]interface{}{
				"cursors": map[string]string{"before": "b", "after": "a"},
			},
		})
	}))
	defer server.Close()

	t.Setenv("INSTAGRAM_GRAPH_API_BASE", server.URL)

	list, err := NewService().ListMedia(context.Background(), "token-123", 25, "cursor-after")
	require.NoError(t, err)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "VIDEO", list.Data[0].MediaType)
	require.NotNil(t, list.Paging)
	assert.Equal(t, "a", list.Paging.Cursors.After)
}

func TestGetMediaByIDGraphError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"message": "Unsupported get request",
				"type":    "IGApiException",
			},
		})
	}))
	defer server.Close()

	t.Setenv("INSTAGRAM_GRAPH_API_BASE", server.URL)

	_, err := NewService().GetMediaByID(context.Background(), "missing-id", "token-123")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Unsupported get request", apiErr.Message)
	assert.Equal(t, "IGApiException", apiErr.Code)
}

func TestDownloadMedia(t *testing.T) {
	payload := []byte("mp4-binary-content")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	data, err := NewService().DownloadMedia(context.Background(), server.URL+"/signed/v1.mp4")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDownloadMediaExpiredLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 만료된 서명 URL은 403을 돌려줌
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewService().DownloadMedia(context.Background(), server.URL+"/signed/v1.mp4")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestRefreshAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/refresh_access_token", r.URL.Path)
		assert.Equal(t, "ig_refresh_token", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "old-token", r.URL.Query().Get("access_token"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "new-token",
			"expires_in":   5184000,
		})
	}))
	defer server.Close()

	t.Setenv("INSTAGRAM_GRAPH_API_BASE", server.URL)

	tokens, err := NewService().RefreshAccessToken(context.Background(), "old-token")
	require.NoError(t, err)
	assert.Equal(t, "new-token", tokens.AccessToken)
	assert.Equal(t, int64(5184000), tokens.ExpiresIn)
}

func TestAuthorizationURLScopeNotDoubleEncoded(t *testing.T) {
	setTestCredentials(t)

	authURL, err := NewService().AuthorizationURL()
	require.NoError(t, err)
	assert.False(t, strings.Contains(authURL, "%252C"), "scope must be encoded exactly once")
}
