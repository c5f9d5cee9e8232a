package session

import (
	"errors"
	"net/http"
	"time"
)

// CookieName - Instagram 연결 세션 쿠키 이름
const CookieName = "instagram_connection"

// MaxAge - 세션 수명 (60일, 장기 토큰 수명과 동일)
const MaxAge = 60 * 24 * time.Hour

// ErrNoSession - 활성 세션 없음
var ErrNoSession = errors.New("no active session")

// Connection - 소셜 계정 연결 정보 (세션 단위로 저장)
type Connection struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
	ConnectedAt string `json:"connectedAt"`
}

// Store - 세션 저장소 인터페이스
// 코어 로직이 쿠키 저장 방식을 가정하지 않도록 분리
type Store interface {
	Save(w http.ResponseWriter, r *http.Request, conn *Connection) error
	Load(r *http.Request) (*Connection, error)
	Clear(w http.ResponseWriter, r *http.Request) error
}
