package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
)

// CookieStore - 연결 정보를 HTTP-only 쿠키에 직접 저장
type CookieStore struct {
	Secure bool
}

// NewCookieStore - CookieStore 생성
func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{Secure: secure}
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, conn *Connection) error {
	payload, err := json.Marshal(conn)
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *CookieStore) Load(r *http.Request) (*Connection, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	payload, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode session cookie: %w", err)
	}

	var conn Connection
	if err := json.Unmarshal(payload, &conn); err != nil {
		return nil, fmt.Errorf("failed to parse session cookie: %w", err)
	}
	return &conn, nil
}

func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
