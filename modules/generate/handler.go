package generate

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"remix-video-server/modules/media"
	"remix-video-server/modules/wan"
)

// Handler - 생성 작업 HTTP Handler
type Handler struct {
	service    *Service
	normalizer *media.Normalizer
}

// NewHandler - Handler 생성
func NewHandler(service *Service, normalizer *media.Normalizer) *Handler {
	return &Handler{
		service:    service,
		normalizer: normalizer,
	}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/generate", h.HandleGenerate).Methods("POST", "OPTIONS")
	r.HandleFunc("/status/{taskId}", h.HandleStatus).Methods("GET")
	r.HandleFunc("/upload", h.HandleUpload).Methods("POST", "OPTIONS")
	r.HandleFunc("/ws/status/{taskId}", h.HandleStatusWS)
	log.Println("✅ [Generate] Routes registered: /generate, /status/{taskId}, /upload, /ws/status/{taskId}")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError - 에러 분류별 HTTP 상태 매핑
// ValidationError → 400, ConfigurationError → 500 (로그), ProviderError → 500 (메시지 전달)
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	var configErr *wan.ConfigurationError
	if errors.As(err, &configErr) {
		log.Printf("❌ [Generate] Configuration error: %v", configErr)
		writeError(w, http.StatusInternalServerError, "Server is not configured for video generation")
		return
	}

	writeError(w, http.StatusInternalServerError, err.Error())
}

// HandleGenerate - POST /generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleStatus - GET /status/{taskId}
// 단발 조회 - 폴링 주기는 호출자 소관
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskId"]
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "Task ID is required")
		return
	}

	resp, err := h.service.Status(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeIfBodyTooLarge - MaxBytesReader 초과를 크기 상한 위반으로 변환
// 여유분을 크게 넘긴 업로드도 본문 파싱 오류가 아니라 크기 오류로 응답
func (h *Handler) writeIfBodyTooLarge(w http.ResponseWriter, r *http.Request, err error) bool {
	var maxBytesErr *http.MaxBytesError
	if !errors.As(err, &maxBytesErr) {
		return false
	}
	sizeErr := &media.SizeLimitError{Size: r.ContentLength, MaxBytes: h.normalizer.MaxBytes()}
	writeError(w, http.StatusBadRequest, sizeErr.Error())
	return true
}

// HandleUpload - POST /upload
// 멀티파트 업로드를 정규화된 레퍼런스 페이로드로 변환
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	// 멀티파트 오버헤드 여유분 1MB
	r.Body = http.MaxBytesReader(w, r.Body, h.normalizer.MaxBytes()+1024*1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		if h.writeIfBodyTooLarge(w, r, err) {
			return
		}
		writeError(w, http.StatusBadRequest, "A file upload is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if h.writeIfBodyTooLarge(w, r, err) {
			return
		}
		log.Printf("❌ [Upload] Failed to read file: %v", err)
		writeError(w, http.StatusInternalServerError, (&media.EncodingError{Err: err}).Error())
		return
	}

	payload, err := h.normalizer.NormalizeUpload(data, header.Header.Get("Content-Type"))
	if err != nil {
		var unsupportedErr *media.UnsupportedTypeError
		var sizeErr *media.SizeLimitError
		switch {
		case errors.As(err, &unsupportedErr), errors.As(err, &sizeErr):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("❌ [Upload] Failed to normalize %s: %v", header.Filename, err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, payload)
}
