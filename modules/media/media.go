package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"log"
	"strings"

	"github.com/kolesa-team/go-webp/decoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/pkg/errors"
)

// FileType - 레퍼런스 입력 종류
type FileType string

const (
	TypeVideo FileType = "video"
	TypeImage FileType = "image"
)

// UnsupportedTypeError - 비디오/이미지가 아닌 미디어 타입
type UnsupportedTypeError struct {
	MimeType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.MimeType)
}

// SizeLimitError - 업로드 크기 상한 초과
type SizeLimitError struct {
	Size     int64
	MaxBytes int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("file size %d exceeds limit of %d bytes", e.Size, e.MaxBytes)
}

// EncodingError - 입력 읽기/인코딩 실패
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return "failed to encode file: " + e.Err.Error()
}

func (e *EncodingError) Unwrap() error { return e.Err }

// ClassifyType - 선언된 미디어 타입으로 비디오/이미지 판별
func ClassifyType(mimeType string) (FileType, error) {
	if strings.HasPrefix(mimeType, "video/") {
		return TypeVideo, nil
	}
	if strings.HasPrefix(mimeType, "image/") {
		return TypeImage, nil
	}
	return "", &UnsupportedTypeError{MimeType: mimeType}
}

// WithinSizeLimit - 크기 상한 검사 (정확히 상한인 파일은 허용)
func WithinSizeLimit(size, maxBytes int64) bool {
	return size <= maxBytes
}

// EncodeDataURI - 자기 기술적 base64 페이로드 생성
func EncodeDataURI(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Payload - 정규화된 레퍼런스 입력
type Payload struct {
	DataURI    string   `json:"payload"`
	FileType   FileType `json:"fileType"`
	WasTrimmed bool     `json:"wasTrimmed"`
	Size       int64    `json:"size"`
}

// Normalizer - 업로드/임포트 입력을 전송 가능한 인코딩 페이로드로 변환
// 트리머 핸들은 의존성 주입 (프로세스 전역 1회 초기화는 Trimmer가 보장)
type Normalizer struct {
	trimmer    *Trimmer
	maxBytes   int64
	maxSeconds int
}

// NewNormalizer - Normalizer 생성
func NewNormalizer(trimmer *Trimmer, maxSizeMB, maxSeconds int) *Normalizer {
	return &Normalizer{
		trimmer:    trimmer,
		maxBytes:   int64(maxSizeMB) * 1024 * 1024,
		maxSeconds: maxSeconds,
	}
}

// MaxBytes - 업로드 크기 상한
func (n *Normalizer) MaxBytes() int64 { return n.maxBytes }

// NormalizeUpload - 파일 바이너리를 검증/트리밍/인코딩해서 페이로드 생성
func (n *Normalizer) NormalizeUpload(data []byte, mimeType string) (*Payload, error) {
	fileType, err := ClassifyType(mimeType)
	if err != nil {
		return nil, err
	}

	// 인코딩 전에 크기부터 검사 (불필요한 대역폭/메모리 낭비 방지)
	if !WithinSizeLimit(int64(len(data)), n.maxBytes) {
		return nil, &SizeLimitError{Size: int64(len(data)), MaxBytes: n.maxBytes}
	}

	wasTrimmed := false
	if fileType == TypeVideo {
		data, wasTrimmed, err = n.NormalizeVideo(data)
		if err != nil {
			return nil, err
		}
		// 트리밍 산출물만 mp4 컨테이너 - 원본 그대로면 선언된 타입 유지
		if wasTrimmed {
			mimeType = "video/mp4"
		}
	} else {
		data, mimeType, err = normalizeImage(data, mimeType)
		if err != nil {
			return nil, err
		}
	}

	return &Payload{
		DataURI:    EncodeDataURI(data, mimeType),
		FileType:   fileType,
		WasTrimmed: wasTrimmed,
		Size:       int64(len(data)),
	}, nil
}

// NormalizeVideo - 비디오를 최대 길이로 맞춤 (이미 맞으면 no-op)
// 트리밍 실패는 해당 업로드에 치명적 - 원본으로 대체하지 않음
func (n *Normalizer) NormalizeVideo(data []byte) ([]byte, bool, error) {
	trimmed, wasTrimmed, err := n.trimmer.TrimBytes(data, n.maxSeconds)
	if err != nil {
		return nil, false, err
	}
	if wasTrimmed {
		log.Printf("✂️  Reference video trimmed to first %ds (%d → %d bytes)", n.maxSeconds, len(data), len(trimmed))
	}
	return trimmed, wasTrimmed, nil
}

// normalizeImage - WebP 레퍼런스 이미지를 PNG로 재인코딩
// 생성 프로바이더는 JPEG/PNG 데이터 URI만 받음
func normalizeImage(data []byte, mimeType string) ([]byte, string, error) {
	if mimeType != "image/webp" {
		return data, mimeType, nil
	}

	img, err := webp.Decode(bytes.NewReader(data), &decoder.Options{})
	if err != nil {
		return nil, "", &EncodingError{Err: errors.Wrap(err, "failed to decode WebP")}
	}

	var pngBuffer bytes.Buffer
	if err := png.Encode(&pngBuffer, img); err != nil {
		return nil, "", &EncodingError{Err: errors.Wrap(err, "failed to encode PNG")}
	}

	log.Printf("🔄 WebP reference converted to PNG: %d → %d bytes", len(data), pngBuffer.Len())
	return pngBuffer.Bytes(), "image/png", nil
}
