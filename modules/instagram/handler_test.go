package instagram

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remix-video-server/modules/common/session"
	"remix-video-server/modules/media"
)

func newHandlerRouter() *mux.Router {
	handler := NewHandler(session.NewCookieStore(false), nil, media.NewNormalizer(media.NewTrimmer(), 50, 15))
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

// connectedRequest - 유효한 세션 쿠키가 실린 요청 생성
func connectedRequest(t *testing.T, method, target string, body io.Reader) *http.Request {
	t.Helper()
	store := session.NewCookieStore(false)
	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(rec, httptest.NewRequest("GET", "/", nil), &session.Connection{
		UserID:      "178414123",
		Username:    "creator.studio",
		AccessToken: "token-123",
		ConnectedAt: "2026-09-01T10:00:00Z",
	}))

	req := httptest.NewRequest(method, target, body)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	return req
}

func TestConnectRedirectsToAuthorize(t *testing.T) {
	t.Setenv("INSTAGRAM_APP_ID", "1234567890")
	t.Setenv("INSTAGRAM_REDIRECT_URI", "https://app.example.com/callback")

	router := newHandlerRouter()

	req := httptest.NewRequest("GET", "/auth/connect", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	assert.Contains(t, location, "/oauth/authorize")
	assert.Contains(t, location, "client_id=1234567890")
}

func TestConnectWithoutCredentials(t *testing.T) {
	t.Setenv("INSTAGRAM_APP_ID", "")
	t.Setenv("INSTAGRAM_REDIRECT_URI", "")

	router := newHandlerRouter()

	req := httptest.NewRequest("GET", "/auth/connect", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCallbackDeniedRedirectsWithoutSession(t *testing.T) {
	t.Setenv("APP_BASE_URL", "https://app.example.com")

	router := newHandlerRouter()

	req := httptest.NewRequest("GET", "/auth/callback?error=access_denied&error_reason=user_denied&error_description=The+user+denied+your+request", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/create", location.Path)
	assert.Equal(t, "The user denied your request", location.Query().Get("error"))

	// 거부된 인가는 세션을 남기지 않음
	assert.Empty(t, rec.Result().Cookies())
}

func TestCallbackWithoutCodeRedirectsWithError(t *testing.T) {
	t.Setenv("APP_BASE_URL", "https://app.example.com")

	router := newHandlerRouter()

	req := httptest.NewRequest("GET", "/auth/callback", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "No authorization code received", location.Query().Get("error"))
}

func TestCallbackSuccessStoresSessionAndRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/access_token":
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": "token-123",
				"user_id":      "178414123",
			})
		case "/me":
			json.NewEncoder(w).Encode(map[string]string{
				"id":       "178414123",
				"username": "creator.studio",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	t.Setenv("INSTAGRAM_APP_ID", "1234567890")
	t.Setenv("INSTAGRAM_APP_SECRET", "shh-secret")
	t.Setenv("INSTAGRAM_REDIRECT_URI", "https://app.example.com/callback")
	t.Setenv("APP_BASE_URL", "https://app.example.com")
	t.Setenv("INSTAGRAM_OAUTH_BASE", server.URL+"/oauth")
	t.Setenv("INSTAGRAM_GRAPH_API_BASE", server.URL)

	router := newHandlerRouter()

	req := httptest.NewRequest("GET", "/auth/callback?code=auth-code-abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "true", location.Query().Get("instagram_connected"))
	assert.Equal(t, "creator.studio", location.Query().Get("username"))

	// 세션 쿠키에서 연결 정보 복원 가능
	store := session.NewCookieStore(false)
	loadReq := httptest.NewRequest("GET", "/media", nil)
	for _, cookie := range rec.Result().Cookies() {
		loadReq.AddCookie(cookie)
	}
	conn, err := store.Load(loadReq)
	require.NoError(t, err)
	assert.Equal(t, "creator.studio", conn.Username)
	assert.Equal(t, "token-123", conn.AccessToken)
}

func TestDisconnect(t *testing.T) {
	router := newHandlerRouter()

	req := connectedRequest(t, "POST", "/auth/disconnect", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())

	// 쿠키 만료 처리
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestListMediaRequiresSession(t *testing.T) {
	graphCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		graphCalls++
	}))
	defer server.Close()

	t.Setenv("INSTAGRAM_GRAPH_API_BASE", server.URL)

	router := newHandlerRouter()

	req := httptest.NewRequest("GET", "/media", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, graphCalls, "no outbound call without a session")
}

func TestListMediaWithSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me/media", r.URL.Path)
		assert.Equal(t, "token-123", r.URL.Query().Get("access_token"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"id": "m1", "media_type": "VIDEO", "media_url": "https://cdn/v1.mp4", "timestamp": "2026-08-30T12:00:00+0000", "permalink": "https://instagram.com/p/1"},
			},
		})
	}))
	defer server.Close()

	t.Setenv("INSTAGRAM_GRAPH_API_BASE", server.URL)

	router := newHandlerRouter()

	req := connectedRequest(t, "GET", "/media?limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var list MediaListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "m1", list.Data[0].ID)
}

func TestDownloadMediaRequiresSession(t *testing.T) {
	graphCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		graphCalls++
	}))
	defer server.Close()

	t.Setenv("INSTAGRAM_GRAPH_API_BASE", server.URL)

	router := newHandlerRouter()

	req := httptest.NewRequest("POST", "/media/download", strings.NewReader(`{"mediaId":"m1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, graphCalls, "no outbound call without a session")
}

func TestDownloadMediaRequiresMediaID(t *testing.T) {
	router := newHandlerRouter()

	req := connectedRequest(t, "POST", "/media/download", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Media ID is required")
}

func TestDownloadMediaRejectsNonVideo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"id":         "m2",
			"media_type": "IMAGE",
			"media_url":  "https://cdn/i1.jpg",
			"timestamp":  "2026-08-29T12:00:00+0000",
			"permalink":  "https://instagram.com/p/2",
		})
	}))
	defer server.Close()

	t.Setenv("INSTAGRAM_GRAPH_API_BASE", server.URL)

	router := newHandlerRouter()

	req := connectedRequest(t, "POST", "/media/download", strings.NewReader(`{"mediaId":"m2"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not a video")
}
