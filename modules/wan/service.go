package wan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Service - Wan (DashScope) 비디오 생성 API 서비스
// 재시도 없음 - 재시도는 호출자 책임
type Service struct {
	httpClient *http.Client
}

// NewService - Service 생성
func NewService() *Service {
	return &Service{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// CreateVideoTaskParams - 작업 생성 파라미터
type CreateVideoTaskParams struct {
	Model      Model
	Prompt     string
	ImgURL     string
	VideoURL   string
	Duration   int
	Resolution string
}

// CreateVideoTaskResult - 작업 생성 결과
type CreateVideoTaskResult struct {
	TaskID string
	Status TaskStatus
}

// buildRequestBody - 모델 변형별 페이로드 구성
// T2V는 size를 픽셀 치수 문자열로, 그 외는 resolution을 그대로 전달
func buildRequestBody(params CreateVideoTaskParams) requestBody {
	body := requestBody{
		Model: params.Model,
		Parameters: requestParams{
			Duration:     params.Duration,
			PromptExtend: true,
			Watermark:    false,
		},
	}

	if params.Model == ModelT2V {
		if params.Resolution == "720P" {
			body.Parameters.Size = "1280*720"
		} else {
			body.Parameters.Size = "1920*1080"
		}
	} else {
		body.Parameters.Resolution = params.Resolution
	}

	body.Input.Prompt = params.Prompt
	body.Input.ImgURL = params.ImgURL
	body.Input.VideoURL = params.VideoURL

	return body
}

// CreateVideoTask - 비동기 비디오 생성 작업 제출
func (s *Service) CreateVideoTask(ctx context.Context, params CreateVideoTaskParams) (*CreateVideoTaskResult, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(buildRequestBody(params))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := cfg.BaseURL + "/services/aigc/video-generation/video-synthesis"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	req.Header.Set("X-DashScope-Async", "enable")

	log.Printf("🚀 [Wan] Creating %s task (duration: %ds, resolution: %s)", params.Model, params.Duration, params.Resolution)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.Printf("📥 [Wan] Response status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ [Wan] API error: %s", string(body))
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result taskCreateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	log.Printf("✅ [Wan] Task created: %s", result.Output.TaskID)
	return &CreateVideoTaskResult{
		TaskID: result.Output.TaskID,
		Status: normalizeStatus(result.Output.TaskStatus),
	}, nil
}

// TaskStatusResult - 작업 상태 스냅샷
type TaskStatusResult struct {
	Status   TaskStatus
	VideoURL string // SUCCEEDED일 때만 존재
	Error    string // FAILED일 때만 존재
}

// GetTaskStatus - 작업 상태 조회
func (s *Service) GetTaskStatus(ctx context.Context, taskID string) (*TaskStatusResult, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/tasks/%s", cfg.BaseURL, taskID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

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
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result taskStatusResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &TaskStatusResult{
		Status:   normalizeStatus(result.Output.TaskStatus),
		VideoURL: result.Output.VideoURL,
		Error:    result.Output.Message,
	}, nil
}
