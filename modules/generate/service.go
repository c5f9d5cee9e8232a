package generate

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"

	"remix-video-server/modules/prompt"
	"remix-video-server/modules/wan"
)

// 제출 응답에 실어 보내는 대략적 생성 소요 시간 (초)
const estimatedTimeSeconds = 180

// Service - 생성 작업 라이프사이클 컨트롤러
// 작업 상태는 프로바이더에 있고 여기서는 스냅샷만 다룸 (로컬 저장 없음)
type Service struct {
	wan      *wan.Service
	validate *validator.Validate
}

// NewService - Service 생성
func NewService(wanService *wan.Service) *Service {
	return &Service{
		wan:      wanService,
		validate: validator.New(),
	}
}

// applyDefaults - 생략된 설정에 기본값 적용
func applyDefaults(req *GenerateRequest) {
	if req.Duration == 0 {
		req.Duration = 10
	}
	if req.Resolution == "" {
		req.Resolution = "720P"
	}
}

// validateRequest - enum 멤버십과 "입력 1개 이상" 불변 조건 검증
func (s *Service) validateRequest(req *GenerateRequest) error {
	if err := s.validate.Struct(req); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range fieldErrors {
				switch fieldErr.Field() {
				case "Duration":
					return &ValidationError{Message: "Invalid duration. Must be 5, 10, or 15 seconds."}
				case "Resolution":
					return &ValidationError{Message: "Invalid resolution. Must be 720P or 1080P."}
				case "ReferenceImageBase64":
					return &ValidationError{Message: "Too many reference images (max 3)."}
				}
			}
		}
		return &ValidationError{Message: err.Error()}
	}

	if req.ReferenceVideoBase64 == "" && len(req.ReferenceImageBase64) == 0 && req.Prompt == "" {
		return &ValidationError{Message: "At least one input (video, image, or prompt) is required."}
	}
	return nil
}

// Submit - 요청 검증 → 모델 선택 → 프롬프트 합성 → 작업 제출
func (s *Service) Submit(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	applyDefaults(req)

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	hasVideo := req.ReferenceVideoBase64 != ""
	hasImages := len(req.ReferenceImageBase64) > 0
	hasPrompt := req.Prompt != ""

	model, err := wan.DetermineModel(hasVideo, hasImages, hasPrompt)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	composed := prompt.Compose(req.Prompt, hasVideo || hasImages)

	params := wan.CreateVideoTaskParams{
		Model:      model,
		Prompt:     composed,
		Duration:   req.Duration,
		Resolution: req.Resolution,
	}
	if hasImages {
		params.ImgURL = req.ReferenceImageBase64[0]
	}
	params.VideoURL = req.ReferenceVideoBase64

	result, err := s.wan.CreateVideoTask(ctx, params)
	if err != nil {
		return nil, err
	}

	log.Printf("🎬 Generation task submitted: %s (model: %s)", result.TaskID, model)

	return &GenerateResponse{
		TaskID:        result.TaskID,
		Status:        result.Status,
		EstimatedTime: estimatedTimeSeconds,
	}, nil
}

// ProgressFor - 상태 → 진행률 매핑 (전역적, 결정적)
func ProgressFor(status wan.TaskStatus) int {
	switch status {
	case wan.StatusPending:
		return 10
	case wan.StatusRunning:
		return 50
	case wan.StatusSucceeded:
		return 100
	default: // FAILED, UNKNOWN
		return 0
	}
}

// Status - 프로바이더 상태 스냅샷 조회 + 진행률 계산
func (s *Service) Status(ctx context.Context, taskID string) (*StatusResponse, error) {
	result, err := s.wan.GetTaskStatus(ctx, taskID)
	if err != nil {
		return nil, err
	}

	return &StatusResponse{
		TaskID:   taskID,
		Status:   result.Status,
		VideoURL: result.VideoURL,
		Error:    result.Error,
		Progress: ProgressFor(result.Status),
	}, nil
}
