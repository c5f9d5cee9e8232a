package prompt

import "strings"

// Compose - 사용자 프롬프트를 프로바이더용 지시문으로 변환
// 순수 문자열 변환 (I/O 없음, 결정적)
//
// 레퍼런스가 있으면 변형(transform) 지시로, 없으면 고정 스타일
// 수식어를 붙인 생성(generate) 지시로 감싼다.
// 빈 입력은 빈 출력 (다운스트림 호출 없음)
func Compose(userPrompt string, hasReference bool) string {
	if strings.TrimSpace(userPrompt) == "" {
		return ""
	}

	if hasReference {
		return "Transform the reference content with the following creative direction: " + userPrompt
	}

	return "Create a cinematic short-form video: " + userPrompt +
		". Include dynamic camera movement, professional lighting, and engaging composition."
}
