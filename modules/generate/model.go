package generate

import "remix-video-server/modules/wan"

// GenerateRequest - 비디오 생성 요청 (클라이언트에서 받는 데이터)
type GenerateRequest struct {
	ReferenceVideoBase64 string   `json:"referenceVideoBase64,omitempty"`
	ReferenceImageBase64 []string `json:"referenceImageBase64,omitempty" validate:"max=3"`
	Prompt               string   `json:"prompt,omitempty"`
	Duration             int      `json:"duration" validate:"oneof=5 10 15"`
	Resolution           string   `json:"resolution" validate:"oneof=720P 1080P"`
}

// GenerateResponse - POST /generate 응답
type GenerateResponse struct {
	TaskID        string         `json:"taskId"`
	Status        wan.TaskStatus `json:"status"`
	EstimatedTime int            `json:"estimatedTime"`
}

// StatusResponse - GET /status/{taskId} 응답
// Progress는 상태에서 유도한 대략치 - 실측 진행률 아님
type StatusResponse struct {
	TaskID   string         `json:"taskId"`
	Status   wan.TaskStatus `json:"status"`
	VideoURL string         `json:"videoUrl,omitempty"`
	Error    string         `json:"error,omitempty"`
	Progress int            `json:"progress"`
}

// ValidationError - 잘못된/누락된 요청 필드 (네트워크 호출 전에 거부)
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
