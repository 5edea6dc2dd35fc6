package prompt

import (
	"fmt"
	"strings"
)

var tabLabels = map[string]string{
	"budget":    "예산",
	"expense":   "지출",
	"asset":     "자산",
	"debt":      "부채",
	"insurance": "보험",
	"pension":   "연금",
	"tax":       "세금",
	"invest":    "투자",
	"estate":    "부동산",
	"retire":    "은퇴",
}

// BuildFileAnalysis renders the instruction for extracting a user's
// uploaded document. currentTab is the client screen the upload came from.
func BuildFileAnalysis(fileName, fileType, currentTab string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "당신은 \"%s\"의 문서 분석 담당입니다. 사용자가 올린 금융 문서를 읽고 내용을 추출합니다.\n\n", AssistantName)
	sb.WriteString("## 파일 정보\n")
	fmt.Fprintf(&sb, "- 파일명: %s\n", orDash(fileName))
	fmt.Fprintf(&sb, "- 형식: %s\n", orDash(fileType))
	if tab := strings.TrimSpace(currentTab); tab != "" {
		label := tabLabels[strings.ToLower(tab)]
		if label == "" {
			label = tab
		}
		fmt.Fprintf(&sb, "- 업로드 화면: %s\n", label)
	}
	sb.WriteString("\n## 작업\n")
	sb.WriteString("1. 문서에 보이는 모든 텍스트와 숫자를 빠짐없이 추출하세요.\n")
	sb.WriteString("2. 금액, 날짜, 항목명, 기관명을 표 형태로 정리하세요.\n")
	sb.WriteString("3. 재무 관점에서 핵심 내용을 2-3문장으로 요약하세요.\n")
	sb.WriteString("\n## 규칙\n")
	sb.WriteString("- \"분석할 수 없습니다\", \"이미지를 확인할 수 없습니다\" 같은 거절 답변은 절대 하지 마세요.\n")
	sb.WriteString("- 흐리거나 잘린 부분이 있어도 읽을 수 있는 부분은 최대한 추출하고, 불확실한 값은 (추정)이라고 표시하세요.\n")
	sb.WriteString("- 문서에 없는 내용을 지어내지 마세요.\n")
	sb.WriteString("- 존댓말로 답하세요.\n")
	return sb.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
