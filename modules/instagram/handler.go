package instagram

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"remix-video-server/modules/common/session"
	"remix-video-server/modules/common/storage"
	"remix-video-server/modules/media"
)

// Handler - Instagram 인증/미디어 HTTP Handler
type Handler struct {
	service    *Service
	store      session.Store
	archive    *storage.Client // nil이면 아카이브 비활성
	normalizer *media.Normalizer
}

// NewHandler - Handler 생성
func NewHandler(store session.Store, archive *storage.Client, normalizer *media.Normalizer) *Handler {
	return &Handler{
		service:    NewService(),
		store:      store,
		archive:    archive,
		normalizer: normalizer,
	}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/connect", h.HandleConnect).Methods("GET")
	r.HandleFunc("/auth/callback", h.HandleCallback).Methods("GET")
	r.HandleFunc("/auth/disconnect", h.HandleDisconnect).Methods("POST", "OPTIONS")
	r.HandleFunc("/media", h.HandleListMedia).Methods("GET")
	r.HandleFunc("/media/download", h.HandleDownloadMedia).Methods("POST", "OPTIONS")
	log.Println("✅ [Instagram] Routes registered: /auth/*, /media, /media/download")
}

// writeJSON - JSON 응답 헬퍼
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// redirectToCreate - 앱의 생성 페이지로 리다이렉트
func redirectToCreate(w http.ResponseWriter, r *http.Request, query string) {
	cfg := LoadConfig()
	http.Redirect(w, r, cfg.AppBaseURL+"/create?"+query, http.StatusFound)
}

// HandleConnect - GET /auth/connect
// OAuth 인가 페이지로 302 리다이렉트
func (h *Handler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.service.AuthorizationURL()
	if err != nil {
		log.Printf("❌ [Instagram] Failed to generate auth URL: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to initiate Instagram connection")
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleCallback - GET /auth/callback
// 코드 교환 → 프로필 조회 → 세션 저장 → 앱으로 리다이렉트
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// OAuth 에러 처리 (세션 쿠키 없이 리다이렉트)
	if oauthErr := query.Get("error"); oauthErr != "" {
		errDescription := query.Get("error_description")
		log.Printf("❌ [Instagram] OAuth error: %s (%s / %s)", oauthErr, query.Get("error_reason"), errDescription)
		if errDescription == "" {
			errDescription = "Instagram authorization failed"
		}
		redirectToCreate(w, r, "error="+url.QueryEscape(errDescription))
		return
	}

	code := query.Get("code")
	if code == "" {
		redirectToCreate(w, r, "error="+url.QueryEscape("No authorization code received"))
		return
	}

	tokens, err := h.service.ExchangeCode(r.Context(), code)
	if err != nil {
		log.Printf("❌ [Instagram] Failed to complete OAuth: %v", err)
		redirectToCreate(w, r, "error="+url.QueryEscape(err.Error()))
		return
	}

	user, err := h.service.GetUser(r.Context(), tokens.AccessToken)
	if err != nil {
		log.Printf("❌ [Instagram] Failed to fetch profile: %v", err)
		redirectToCreate(w, r, "error="+url.QueryEscape(err.Error()))
		return
	}

	conn := &session.Connection{
		UserID:      user.ID,
		Username:    user.Username,
		AccessToken: tokens.AccessToken,
		ConnectedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.store.Save(w, r, conn); err != nil {
		log.Printf("❌ [Instagram] Failed to save session: %v", err)
		redirectToCreate(w, r, "error="+url.QueryEscape("Failed to connect Instagram"))
		return
	}

	log.Printf("✅ [Instagram] Connected: @%s", user.Username)
	redirectToCreate(w, r, "instagram_connected=true&username="+url.QueryEscape(user.Username))
}

// HandleDisconnect - POST /auth/disconnect
func (h *Handler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.store.Clear(w, r); err != nil {
		log.Printf("❌ [Instagram] Failed to disconnect: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to disconnect Instagram")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleListMedia - GET /media?limit&after
func (h *Handler) HandleListMedia(w http.ResponseWriter, r *http.Request) {
	conn, err := h.store.Load(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Instagram not connected")
		return
	}

	limit := 25
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	after := r.URL.Query().Get("after")

	list, err := h.service.ListMedia(r.Context(), conn.AccessToken, limit, after)
	if err != nil {
		log.Printf("❌ [Instagram] Failed to fetch media: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// downloadRequest - POST /media/download 요청
type downloadRequest struct {
	MediaID string `json:"mediaId"`
}

// downloadResponse - POST /media/download 응답
type downloadResponse struct {
	Success bool            `json:"success"`
	Video   downloadedVideo `json:"video"`
}

type downloadedVideo struct {
	ID          string `json:"id"`
	Caption     string `json:"caption,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Base64      string `json:"base64"`
	OriginalURL string `json:"originalUrl"`
	StoredURL   string `json:"storedUrl,omitempty"`
	WasTrimmed  bool   `json:"wasTrimmed"`
}

// HandleDownloadMedia - POST /media/download
// 미디어 조회 → 다운로드 → 길이 정규화 → (선택) 아카이브 → base64 반환
func (h *Handler) HandleDownloadMedia(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	conn, err := h.store.Load(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Instagram not connected")
		return
	}

	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MediaID == "" {
		writeError(w, http.StatusBadRequest, "Media ID is required")
		return
	}

	mediaItem, err := h.service.GetMediaByID(r.Context(), req.MediaID, conn.AccessToken)
	if err != nil {
		log.Printf("❌ [Instagram] Failed to fetch media %s: %v", req.MediaID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if mediaItem.MediaType != "VIDEO" {
		writeError(w, http.StatusBadRequest, "Selected media is not a video")
		return
	}

	// 서명 링크가 만료되기 전에 바로 다운로드
	videoData, err := h.service.DownloadMedia(r.Context(), mediaItem.MediaURL)
	if err != nil {
		log.Printf("❌ [Instagram] Failed to download video: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// 임포트한 비디오도 업로드와 같은 길이 상한을 따름
	videoData, wasTrimmed, err := h.normalizer.NormalizeVideo(videoData)
	if err != nil {
		log.Printf("❌ [Instagram] Failed to normalize video: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// 아카이브는 best-effort (실패해도 임포트는 진행)
	storedURL := ""
	if h.archive != nil {
		if archived, err := h.archive.ArchiveVideo(videoData, conn.UserID); err != nil {
			log.Printf("⚠️ [Instagram] Failed to archive video: %v", err)
		} else {
			storedURL = archived
		}
	}

	writeJSON(w, http.StatusOK, downloadResponse{
		Success: true,
		Video: downloadedVideo{
			ID:          mediaItem.ID,
			Caption:     mediaItem.Caption,
			Thumbnail:   mediaItem.ThumbnailURL,
			Base64:      base64.StdEncoding.EncodeToString(videoData),
			OriginalURL: mediaItem.Permalink,
			StoredURL:   storedURL,
			WasTrimmed:  wasTrimmed,
		},
	})
}
