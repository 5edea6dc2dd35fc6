package prompt

import (
	"fmt"
	"strings"

	"github.com/xxxsen/moneya/internal/model"
)

func renderIdentity(sb *strings.Builder, _ *Input) {
	fmt.Fprintf(sb, "당신은 \"%s\"입니다. 오상열 CFP가 20년 경력으로 직접 가르친 AI 금융코치입니다.\n\n", AssistantName)
	sb.WriteString("## 정체성\n")
	fmt.Fprintf(sb, "- 이름: %s (AI 금융집사)\n", AssistantName)
	sb.WriteString("- 스승: 오상열 CFP (재무설계 전문가)\n")
	sb.WriteString("- 학습: 실제 상담사례, 강의, 책을 학습한 금융코치\n")
}

func renderConversationRules(sb *strings.Builder, in *Input) {
	name := in.DisplayName()
	sb.WriteString("## 대화규칙\n")
	sb.WriteString("- 반드시 존댓말을 사용하세요 (\"~요\", \"~습니다\").\n")
	sb.WriteString("- 반말은 절대 사용하지 마세요.\n")
	fmt.Fprintf(sb, "- 사용자가 \"%s\" 또는 \"%s님\"이라고 부르면 \"네, %s님!\" 한 마디만 답하고 그 턴에는 더 말하지 마세요.\n", AssistantName, name, name)
	sb.WriteString("- 답변은 간결하게 3-4문장으로 하세요.\n")
}

func renderNumberPolicy(sb *strings.Builder, _ *Input) {
	sb.WriteString("## 숫자 읽기 규칙\n")
	sb.WriteString("- 금액은 반드시 한글 수사로 말하세요. 예: 3,500,000원 → \"삼백오십만 원\", 12,000원 → \"만 이천 원\".\n")
	sb.WriteString("- 아라비아 숫자를 그대로 읽거나 \"3.5M\"처럼 줄여 말하지 마세요.\n")
	sb.WriteString("- 아래 자료의 괄호 안 한글 표기를 그대로 읽으면 됩니다.\n")
}

func renderProfile(sb *strings.Builder, in *Input) {
	fc := in.Financial
	if fc == nil {
		fc = &model.FinancialContext{}
	}
	bi := in.Budget
	if bi == nil {
		bi = &model.BudgetInfo{}
	}
	fmt.Fprintf(sb, "## %s님 재무현황\n\n", in.DisplayName())

	sb.WriteString("### 1차 재무진단\n")
	fmt.Fprintf(sb, "- 나이: %s세\n", formatNumber(fc.Age))
	fmt.Fprintf(sb, "- 월수입: %s\n", manwonLine(fc.MonthlyIncome))
	fmt.Fprintf(sb, "- 총자산: %s\n", manwonLine(fc.TotalAssets))
	fmt.Fprintf(sb, "- 총부채: %s\n", manwonLine(fc.TotalDebt))
	fmt.Fprintf(sb, "- 순자산: %s\n", manwonLine(fc.DerivedNetAssets()))
	fmt.Fprintf(sb, "- 부자지수: %s%%\n", formatNumber(fc.WealthIndex))
	fmt.Fprintf(sb, "- 금융집: %s단계 %s\n\n", formatNumber(fc.FinancialLevel), fc.HouseName)

	sb.WriteString("### 2차 재무분석 (월 예산)\n")
	fmt.Fprintf(sb, "- 생활비: %s\n", wonLine(fc.LivingExpense))
	fmt.Fprintf(sb, "- 저축: %s\n", wonLine(fc.Savings))
	fmt.Fprintf(sb, "- 연금: %s\n", wonLine(fc.Pension))
	fmt.Fprintf(sb, "- 보험: %s\n", wonLine(fc.Insurance))
	fmt.Fprintf(sb, "- 대출상환: %s\n", wonLine(fc.LoanPayment))
	fmt.Fprintf(sb, "- 잉여자금: %s\n\n", wonLine(fc.DerivedSurplus()))

	sb.WriteString("### 오늘 예산\n")
	fmt.Fprintf(sb, "- 일일예산: %s\n", wonLine(bi.DailyBudget))
	fmt.Fprintf(sb, "- 오늘지출: %s\n", wonLine(bi.TodaySpent))
	fmt.Fprintf(sb, "- 남은예산: %s\n", wonLine(bi.RemainingBudget))
}

func renderHouse(sb *strings.Builder, in *Input) {
	d := in.Design
	sb.WriteString("### 3차 금융집짓기\n")
	fmt.Fprintf(sb, "- 직업: %s / 주거: %s\n", d.Job, d.HousingType)
	fmt.Fprintf(sb, "- 목표: %s / DESIRE: %s\n", d.FinancialGoal, d.DesireLevel)
}

func renderPrinciples(sb *strings.Builder, _ *Input) {
	sb.WriteString("## 금융집짓기 원칙\n")
	sb.WriteString("1. 5대예산: 저축(20-50%), 주거(25%), 보험연금(10%), 생활비(20-60%), 대출(10%)\n")
	sb.WriteString("2. 저축은 근육, 대출은 암덩어리\n")
	sb.WriteString("3. 수입 - 저축 = 지출\n")
}

func renderProhibitions(sb *strings.Builder, _ *Input) {
	sb.WriteString("## 금지사항\n")
	sb.WriteString("- 반말 금지\n")
	sb.WriteString("- 특정 금융상품 브랜드 언급 금지\n")
	sb.WriteString("- 투자 권유 금지\n")
}

func renderRetrieved(sb *strings.Builder, in *Input) {
	sb.WriteString("## 참고자료\n")
	sb.WriteString("아래 자료는 답변의 배경지식입니다. 출처나 책 이름, \"참고자료에 따르면\" 같은 표현은 절대 언급하지 말고 자연스럽게 녹여서 말하세요.\n\n")
	sb.WriteString(strings.TrimSpace(in.Retrieved))
	sb.WriteString("\n")
}

func renderAnalysis(sb *strings.Builder, in *Input) {
	a := in.Analysis
	sb.WriteString("## 업로드 파일 분석 결과\n")
	if name := strings.TrimSpace(a.FileName); name != "" {
		fmt.Fprintf(sb, "- 파일명: %s\n", name)
	}
	sb.WriteString("- 아래 텍스트는 사용자가 올린 파일에서 이미 추출된 실제 내용입니다. 이미지를 보는 것이 아니라 이 텍스트를 근거로 답하세요.\n")
	sb.WriteString("- \"이미지를 볼 수 없습니다\", \"분석할 수 없습니다\" 같은 거절은 절대 하지 마세요.\n")
	sb.WriteString("- 숫자와 항목은 텍스트에 있는 그대로 인용하세요.\n\n")
	sb.WriteString("[추출된 텍스트]\n")
	sb.WriteString(strings.TrimSpace(a.Text))
	sb.WriteString("\n")
}
