package media

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// TrimError - 트리밍 단계 실패 (디코딩/인코딩 오류 포함)
type TrimError struct {
	Err error
}

func (e *TrimError) Error() string {
	return "failed to trim video: " + e.Err.Error()
}

func (e *TrimError) Unwrap() error { return e.Err }

// Trimmer - 레퍼런스 비디오를 최대 길이로 잘라내는 핸들
// 엔진 가용성 검사는 프로세스 수명당 1회 (sync.Once로 동시 초기화 방지)
type Trimmer struct {
	once    sync.Once
	initErr error
}

// NewTrimmer - Trimmer 생성 (초기화는 첫 사용 시점까지 지연)
func NewTrimmer() *Trimmer {
	return &Trimmer{}
}

// ensureEngine - ffmpeg/ffprobe 바이너리 확인 (1회)
func (t *Trimmer) ensureEngine() error {
	t.once.Do(func() {
		for _, bin := range []string{"ffmpeg", "ffprobe"} {
			if _, err := exec.LookPath(bin); err != nil {
				t.initErr = errors.Wrapf(err, "%s not found in PATH", bin)
				return
			}
		}
		log.Println("✅ Transcoding engine available (ffmpeg/ffprobe)")
	})
	return t.initErr
}

// probeDuration - 재생 길이 측정 (초)
func probeDuration(inputPath string) (float64, error) {
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return 0, errors.Wrap(err, "error probing video")
	}

	var data struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return 0, errors.WithStack(err)
	}

	duration, err := strconv.ParseFloat(data.Format.Duration, 64)
	if err != nil {
		return 0, errors.Wrap(err, "invalid duration in probe output")
	}
	return duration, nil
}

// TrimToMaxDuration - 첫 maxSeconds초만 남김 (스트림 카피, 재인코딩 없음)
// 이미 길이가 맞으면 원본 경로를 그대로 반환 (wasTrimmed=false)
func (t *Trimmer) TrimToMaxDuration(inputPath string, maxSeconds int) (string, bool, error) {
	if err := t.ensureEngine(); err != nil {
		return "", false, &TrimError{Err: err}
	}

	duration, err := probeDuration(inputPath)
	if err != nil {
		return "", false, &TrimError{Err: err}
	}

	if duration <= float64(maxSeconds) {
		return inputPath, false, nil
	}

	outputPath := filepath.Join(os.TempDir(), fmt.Sprintf("trimmed_%s.mp4", uuid.New().String()[:8]))

	log.Printf("✂️  Trimming video: %.1fs → %ds (stream copy)", duration, maxSeconds)

	err = ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{
			"t": maxSeconds,
			"c": "copy",
		}).
		OverWriteOutput().
		Silent(true).
		Run()
	if err != nil {
		os.Remove(outputPath)
		return "", false, &TrimError{Err: errors.Wrap(err, "stream copy failed")}
	}

	return outputPath, true, nil
}

// TrimBytes - 바이너리 입력용 래퍼: 임시 파일 왕복 후 정리
func (t *Trimmer) TrimBytes(data []byte, maxSeconds int) ([]byte, bool, error) {
	inputPath := filepath.Join(os.TempDir(), fmt.Sprintf("input_%s.mp4", uuid.New().String()[:8]))
	if err := os.WriteFile(inputPath, data, 0o600); err != nil {
		return nil, false, &TrimError{Err: errors.Wrap(err, "failed to write temp file")}
	}
	defer os.Remove(inputPath)

	outputPath, wasTrimmed, err := t.TrimToMaxDuration(inputPath, maxSeconds)
	if err != nil {
		return nil, false, err
	}

	if !wasTrimmed {
		return data, false, nil
	}
	defer os.Remove(outputPath)

	trimmed, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, false, &TrimError{Err: errors.Wrap(err, "failed to read trimmed output")}
	}
	return trimmed, true, nil
}
