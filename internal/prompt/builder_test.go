package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xxxsen/moneya/internal/model"
)

func fullInput() Input {
	return Input{
		UserName: "지영",
		Financial: &model.FinancialContext{
			Name: "지영", Age: 42, MonthlyIncome: 450, TotalAssets: 32000, TotalDebt: 12000,
			WealthIndex: 87.5, FinancialLevel: 3, HouseName: "튼튼한 집",
			LivingExpense: 1500000, Savings: 1000000, Pension: 300000, Insurance: 250000, LoanPayment: 800000,
		},
		Budget: &model.BudgetInfo{DailyBudget: 50000, TodaySpent: 12000, RemainingBudget: 38000},
		Design: &model.DesignData{
			Job: "회사원", HousingType: "전세", FinancialGoal: "내집마련", DesireLevel: "S",
			Retire:    model.DesignPlan{"retireAge": 60.0, "monthlyLivingCost": 300.0, "note": "조기은퇴 희망"},
			Debt:      model.DesignPlan{"totalDebt": 12000.0, "interestRate": 4.5},
			Save:      model.DesignPlan{"monthlySaving": 100.0},
			Invest:    model.DesignPlan{"riskProfile": "중립형"},
			Tax:       model.DesignPlan{"pensionSavings": 600.0},
			Estate:    model.DesignPlan{"targetPrice": 60000.0},
			Insurance: model.DesignPlan{"monthlyPremium": 25.0, "medicalInsurance": true},
		},
		Analysis:  &model.AnalysisContext{FileName: "급여명세서.jpg", Text: "지급총액 4,500,000원"},
		Retrieved: "[1] 【부자습관】\n저축은 근육입니다",
	}
}

func TestBuildDeterministic(t *testing.T) {
	a := Build(fullInput())
	b := Build(fullInput())
	require.Equal(t, a, b)
	require.Equal(t, Build(Input{}), Build(Input{}))
}

func TestBuildWithoutDesignHasNoHeaders(t *testing.T) {
	out := Build(Input{UserName: "민수", Financial: &model.FinancialContext{Name: "민수", Age: 30}})
	for _, h := range DesignHeaders() {
		require.NotContains(t, out, h)
	}
	require.NotContains(t, out, "3차 금융집짓기")
}

func TestBuildRetireWithoutDebt(t *testing.T) {
	out := Build(Input{Design: &model.DesignData{Retire: model.DesignPlan{"retireAge": 65.0}}})
	require.Contains(t, out, "### 은퇴설계")
	require.Contains(t, out, "- 은퇴나이: 65세")
	require.NotContains(t, out, "### 부채설계")
	require.NotContains(t, out, "### 보험설계")
}

func TestBuildEmptyPlanIsPresent(t *testing.T) {
	out := Build(Input{Design: &model.DesignData{Tax: model.DesignPlan{}}})
	require.Contains(t, out, "### 세금설계")
}

func TestBuildScenarioMinsu(t *testing.T) {
	out := Build(Input{Financial: &model.FinancialContext{Name: "민수", Age: 30}})
	require.Contains(t, out, "민수")
	require.Contains(t, out, "30세")
	require.Contains(t, out, "- 일일예산: 0원\n")
	require.Contains(t, out, "- 오늘지출: 0원\n")
	require.Contains(t, out, "- 남은예산: 0원")
	require.Contains(t, out, "네, 민수님!")
	for _, h := range DesignHeaders() {
		require.NotContains(t, out, h)
	}
}

func TestBuildOptionalSections(t *testing.T) {
	base := Input{UserName: "민수"}
	out := Build(base)
	require.NotContains(t, out, "## 참고자료")
	require.NotContains(t, out, "## 업로드 파일 분석 결과")

	withBlank := base
	withBlank.Retrieved = "   "
	withBlank.Analysis = &model.AnalysisContext{FileName: "a.png", Text: " "}
	require.Equal(t, out, Build(withBlank))

	full := Build(fullInput())
	require.Contains(t, full, "## 참고자료")
	require.Contains(t, full, "저축은 근육입니다")
	require.Contains(t, full, "절대 언급하지 말고")
	require.Contains(t, full, "## 업로드 파일 분석 결과")
	require.Contains(t, full, "급여명세서.jpg")
	require.Contains(t, full, "지급총액 4,500,000원")
	require.Contains(t, full, "분석할 수 없습니다")
	require.Less(t, strings.Index(full, "## 참고자료"), strings.Index(full, "## 업로드 파일 분석 결과"))
}

func TestBuildSectionOrder(t *testing.T) {
	names := SectionNames(fullInput())
	require.Equal(t, []string{
		"identity", "conversation", "numbers", "profile", "house",
		"design.retire", "design.debt", "design.save", "design.invest",
		"design.tax", "design.estate", "design.insurance",
		"principles", "prohibitions", "retrieved", "analysis",
	}, names)

	full := Build(fullInput())
	last := -1
	for _, h := range DesignHeaders() {
		idx := strings.Index(full, h)
		require.Greater(t, idx, last, h)
		last = idx
	}
}

func TestBuildPlanFields(t *testing.T) {
	out := Build(fullInput())
	require.Contains(t, out, "- 은퇴후 월생활비: 300만원 (삼백만 원)")
	require.Contains(t, out, "- note: 조기은퇴 희망")
	require.Contains(t, out, "- 평균금리: 4.5%")
	require.Contains(t, out, "- 투자성향: 중립형")
	require.Contains(t, out, "- 실손보험: 예")
	require.Less(t, strings.Index(out, "은퇴후 월생활비"), strings.Index(out, "- note:"))
}

func TestBuildProfileAmounts(t *testing.T) {
	out := Build(fullInput())
	require.Contains(t, out, "- 월수입: 450만원 (사백오십만 원)")
	require.Contains(t, out, "- 순자산: 20,000만원 (이억 원)")
	require.Contains(t, out, "- 생활비: 1,500,000원 (백오십만 원)")
	require.Contains(t, out, "- 잉여자금: 650,000원 (육십오만 원)")
	require.Contains(t, out, "- 부자지수: 87.5%")
	require.Contains(t, out, "- 금융집: 3단계 튼튼한 집")
	require.Contains(t, out, "- 직업: 회사원 / 주거: 전세")
}

func TestDisplayNameFallback(t *testing.T) {
	require.Equal(t, "고객", (&Input{}).DisplayName())
	require.Equal(t, "현우", (&Input{UserName: "현우"}).DisplayName())
	require.Equal(t, "민수", (&Input{UserName: "현우", Financial: &model.FinancialContext{Name: "민수"}}).DisplayName())
}

func TestBuildFileAnalysis(t *testing.T) {
	out := BuildFileAnalysis("card.png", "image/png", "expense")
	require.Contains(t, out, "card.png")
	require.Contains(t, out, "image/png")
	require.Contains(t, out, "업로드 화면: 지출")
	require.Contains(t, out, "거절 답변은 절대 하지 마세요")
	require.Contains(t, out, "최대한 추출")

	out = BuildFileAnalysis("", "", "")
	require.Contains(t, out, "- 파일명: -")
	require.NotContains(t, out, "업로드 화면")
}
