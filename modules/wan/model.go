package wan

import "fmt"

// Model - Wan 비디오 생성 모델 변형
type Model string

const (
	ModelT2V      Model = "wan2.6-t2v"       // 텍스트만
	ModelI2V      Model = "wan2.6-i2v"       // 이미지 (기본)
	ModelI2VFlash Model = "wan2.6-i2v-flash" // 이미지 (고속)
	ModelR2V      Model = "wan2.6-r2v"       // 레퍼런스 비디오
)

// TaskStatus - 정규화된 작업 상태
type TaskStatus string

const (
	StatusPending   TaskStatus = "PENDING"
	StatusRunning   TaskStatus = "RUNNING"
	StatusSucceeded TaskStatus = "SUCCEEDED"
	StatusFailed    TaskStatus = "FAILED"
	StatusUnknown   TaskStatus = "UNKNOWN"
)

// IsTerminal - 종료 상태 여부 (더 이상 전이 없음)
func (s TaskStatus) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// normalizeStatus - 프로바이더 상태 어휘를 1:1 매핑, 미인식 값은 UNKNOWN
func normalizeStatus(raw string) TaskStatus {
	switch TaskStatus(raw) {
	case StatusPending, StatusRunning, StatusSucceeded, StatusFailed:
		return TaskStatus(raw)
	default:
		return StatusUnknown
	}
}

// DetermineModel - 입력 조합으로 모델 변형 선택
// 우선순위: 비디오 > 이미지 > 프롬프트
func DetermineModel(hasVideo, hasImages, hasPrompt bool) (Model, error) {
	if hasVideo {
		return ModelR2V, nil
	}
	if hasImages {
		return ModelI2VFlash, nil
	}
	if hasPrompt {
		return ModelT2V, nil
	}
	return "", fmt.Errorf("at least one input (video, image, or prompt) is required")
}

// ProviderError - 생성 프로바이더의 비성공 응답
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("Wan API error: %d - %s", e.StatusCode, e.Body)
}

// requestBody - Wan API 요청 페이로드
type requestBody struct {
	Model      Model         `json:"model"`
	Input      requestInput  `json:"input"`
	Parameters requestParams `json:"parameters"`
}

type requestInput struct {
	Prompt   string `json:"prompt,omitempty"`
	ImgURL   string `json:"img_url,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
}

type requestParams struct {
	Duration     int    `json:"duration"`
	PromptExtend bool   `json:"prompt_extend"`
	Watermark    bool   `json:"watermark"`
	Size         string `json:"size,omitempty"`       // T2V는 픽셀 치수 문자열
	Resolution   string `json:"resolution,omitempty"` // 그 외 모델은 해상도 enum
}

// taskCreateResponse - 작업 생성 응답
type taskCreateResponse struct {
	Output struct {
		TaskID     string `json:"task_id"`
		TaskStatus string `json:"task_status"`
	} `json:"output"`
	RequestID string `json:"request_id"`
}

// taskStatusResponse - 작업 상태 조회 응답
type taskStatusResponse struct {
	Output struct {
		TaskID     string `json:"task_id"`
		TaskStatus string `json:"task_status"`
		VideoURL   string `json:"video_url,omitempty"`
		SubmitTime string `json:"submit_time,omitempty"`
		EndTime    string `json:"end_time,omitempty"`
		Code       string `json:"code,omitempty"`
		Message    string `json:"message,omitempty"`
	} `json:"output"`
	RequestID string `json:"request_id"`
}
