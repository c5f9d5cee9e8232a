package storage

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"

	"remix-video-server/modules/common/config"
)

// Client - Supabase Storage 미디어 아카이브 클라이언트
// 임포트한 Instagram 비디오의 CDN 링크는 수 시간 내 만료되므로
// 다운로드 직후 스토리지에 보관한다
type Client struct {
	supabase *supabase.Client
	bucket   string
}

// NewClient - Storage 클라이언트 생성 (미설정 시 nil 반환, 아카이브 비활성)
func NewClient() *Client {
	cfg := config.GetConfig()

	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		log.Println("⚠️  Supabase not configured, media archive disabled")
		return nil
	}

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ Failed to create Supabase client: %v", err)
		return nil
	}

	return &Client{
		supabase: supabaseClient,
		bucket:   cfg.SupabaseBucket,
	}
}

// ArchiveVideo - 비디오 바이너리를 Supabase Storage에 업로드하고 공개 URL 반환
func (c *Client) ArchiveVideo(data []byte, userID string) (string, error) {
	timestamp := time.Now().UnixMilli()
	fileName := fmt.Sprintf("imported_%d_%s.mp4", timestamp, uuid.New().String()[:8])
	filePath := fmt.Sprintf("imported-videos/user-%s/%s", userID, fileName)

	log.Printf("📤 Archiving imported video to storage: %s (%d bytes)", filePath, len(data))

	contentType := "video/mp4"
	_, err := c.supabase.Storage.UploadFile(c.bucket, filePath, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	publicURL := c.supabase.Storage.GetPublicUrl(c.bucket, filePath).SignedURL

	log.Printf("✅ Video archived: %s", publicURL)
	return publicURL, nil
}
