package session

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:instagram:"

// RedisStore - 연결 정보를 Redis에 저장하고 쿠키에는 세션 ID만 유지
type RedisStore struct {
	rdb    *redis.Client
	Secure bool
}

// NewRedisStore - RedisStore 생성
func NewRedisStore(rdb *redis.Client, secure bool) *RedisStore {
	return &RedisStore{rdb: rdb, Secure: secure}
}

func (s *RedisStore) Save(w http.ResponseWriter, r *http.Request, conn *Connection) error {
	payload, err := json.Marshal(conn)
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	sid := uuid.New().String()
	if err := s.rdb.Set(r.Context(), redisKeyPrefix+sid, payload, MaxAge).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *RedisStore) Load(r *http.Request) (*Connection, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	payload, err := s.rdb.Get(r.Context(), redisKeyPrefix+cookie.Value).Bytes()
	if err == redis.Nil {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var conn Connection
	if err := json.Unmarshal(payload, &conn); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &conn, nil
}

func (s *RedisStore) Clear(w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(CookieName); err == nil {
		// 세션 데이터 삭제 실패는 쿠키 제거를 막지 않음 (TTL로 만료됨)
		s.rdb.Del(r.Context(), redisKeyPrefix+cookie.Value)
	}

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
