package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"remix-video-server/modules/common/config"
	redisClient "remix-video-server/modules/common/redis"
	"remix-video-server/modules/common/session"
	"remix-video-server/modules/common/storage"
	"remix-video-server/modules/generate"
	"remix-video-server/modules/instagram"
	"remix-video-server/modules/media"
	"remix-video-server/modules/wan"
)

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "remix-video-server",
	})
}

// buildSessionStore - 설정에 따라 세션 저장소 선택
func buildSessionStore(cfg *config.Config) session.Store {
	if cfg.SessionBackend == "redis" {
		rdb := redisClient.Connect(cfg)
		if rdb == nil {
			log.Fatal("❌ SESSION_BACKEND=redis but Redis connection failed")
		}
		log.Println("✅ Session store: Redis")
		return session.NewRedisStore(rdb, cfg.CookieSecure)
	}

	log.Println("✅ Session store: HTTP-only cookie")
	return session.NewCookieStore(cfg.CookieSecure)
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// 공용 의존성 구성
	sessionStore := buildSessionStore(cfg)
	archive := storage.NewClient() // 미설정 시 nil (아카이브 비활성)
	normalizer := media.NewNormalizer(media.NewTrimmer(), cfg.MaxUploadMB, cfg.MaxReferenceSeconds)

	// 모듈 초기화
	generateHandler := generate.NewHandler(generate.NewService(wan.NewService()), normalizer)
	instagramHandler := instagram.NewHandler(sessionStore, archive, normalizer)

	// 라우터 설정
	r := mux.NewRouter()

	// CORS 미들웨어 적용
	r.Use(enableCORS)

	// 라우트 설정
	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	generateHandler.RegisterRoutes(r)
	instagramHandler.RegisterRoutes(r)

	log.Printf("🚀 Remix Video Server starting on port %s", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("🎬 Generate: POST http://localhost:%s/generate", cfg.Port)
	log.Printf("📡 Status stream: ws://localhost:%s/ws/status/{taskId}", cfg.Port)

	// 서버 시작
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
