package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xxxsen/moneya/internal/model"
)

type planField struct {
	key   string
	label string
	unit  string
}

type planSpec struct {
	key    string
	header string
	fields []planField
	get    func(*model.DesignData) model.DesignPlan
}

var planSpecs = []planSpec{
	{
		key: "retire", header: "### 은퇴설계",
		get: func(d *model.DesignData) model.DesignPlan { return d.Retire },
		fields: []planField{
			{"currentAge", "현재나이", "세"},
			{"retireAge", "은퇴나이", "세"},
			{"lifeExpectancy", "기대수명", "세"},
			{"monthlyLivingCost", "은퇴후 월생활비", "만원"},
			{"nationalPension", "국민연금", "만원"},
			{"personalPension", "개인연금", "만원"},
			{"requiredFund", "필요 은퇴자금", "만원"},
			{"preparedFund", "준비된 은퇴자금", "만원"},
			{"monthlySaving", "월 추가저축", "만원"},
		},
	},
	{
		key: "debt", header: "### 부채설계",
		get: func(d *model.DesignData) model.DesignPlan { return d.Debt },
		fields: []planField{
			{"totalDebt", "총부채", "만원"},
			{"mortgage", "주택담보대출", "만원"},
			{"creditLoan", "신용대출", "만원"},
			{"interestRate", "평균금리", "%"},
			{"monthlyPayment", "월상환액", "만원"},
			{"debtRatio", "부채비율", "%"},
			{"payoffYears", "상환기간", "년"},
		},
	},
	{
		key: "save", header: "### 저축설계",
		get: func(d *model.DesignData) model.DesignPlan { return d.Save },
		fields: []planField{
			{"monthlySaving", "월저축", "만원"},
			{"savingRate", "저축률", "%"},
			{"emergencyFund", "비상자금", "만원"},
			{"targetAmount", "목표금액", "만원"},
			{"targetYears", "목표기간", "년"},
		},
	},
	{
		key: "invest", header: "### 투자설계",
		get: func(d *model.DesignData) model.DesignPlan { return d.Invest },
		fields: []planField{
			{"investAmount", "투자금액", "만원"},
			{"monthlyInvest", "월투자", "만원"},
			{"expectedReturn", "기대수익률", "%"},
			{"stockRatio", "주식비중", "%"},
			{"bondRatio", "채권비중", "%"},
			{"riskProfile", "투자성향", ""},
		},
	},
	{
		key: "tax", header: "### 세금설계",
		get: func(d *model.DesignData) model.DesignPlan { return d.Tax },
		fields: []planField{
			{"annualIncome", "연소득", "만원"},
			{"taxRate", "세율", "%"},
			{"deduction", "공제액", "만원"},
			{"pensionSavings", "연금저축", "만원"},
			{"isa", "ISA", "만원"},
			{"expectedRefund", "예상환급액", "만원"},
		},
	},
	{
		key: "estate", header: "### 부동산설계",
		get: func(d *model.DesignData) model.DesignPlan { return d.Estate },
		fields: []planField{
			{"currentHousing", "현재주거", ""},
			{"housingValue", "주택가액", "만원"},
			{"targetHousing", "목표주택", ""},
			{"targetPrice", "목표가격", "만원"},
			{"downPayment", "준비자금", "만원"},
			{"ltv", "LTV", "%"},
			{"purchaseYears", "목표시기", "년"},
		},
	},
	{
		key: "insurance", header: "### 보험설계",
		get: func(d *model.DesignData) model.DesignPlan { return d.Insurance },
		fields: []planField{
			{"monthlyPremium", "월보험료", "만원"},
			{"premiumRatio", "소득대비 보험료", "%"},
			{"lifeCoverage", "사망보장", "만원"},
			{"illnessCoverage", "질병보장", "만원"},
			{"medicalInsurance", "실손보험", ""},
		},
	},
}

// DesignHeaders lists every design plan header in render order.
func DesignHeaders() []string {
	out := make([]string, 0, len(planSpecs))
	for _, p := range planSpecs {
		out = append(out, p.header)
	}
	return out
}

func renderPlan(sb *strings.Builder, spec planSpec, plan model.DesignPlan) {
	sb.WriteString(spec.header)
	sb.WriteString("\n")
	known := make(map[string]struct{}, len(spec.fields))
	for _, f := range spec.fields {
		known[f.key] = struct{}{}
		v, ok := plan[f.key]
		if !ok {
			continue
		}
		fmt.Fprintf(sb, "- %s: %s\n", f.label, renderValue(v, f.unit))
	}
	extra := make([]string, 0, len(plan))
	for k := range plan {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		fmt.Fprintf(sb, "- %s: %s\n", k, renderValue(plan[k], ""))
	}
}

func renderValue(v interface{}, unit string) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case float64:
		return renderNumber(val, unit)
	case float32:
		return renderNumber(float64(val), unit)
	case int:
		return renderNumber(float64(val), unit)
	case int64:
		return renderNumber(float64(val), unit)
	case bool:
		if val {
			return "예"
		}
		return "아니오"
	case string:
		if strings.TrimSpace(val) == "" {
			return "-"
		}
		return val
	default:
		return fmt.Sprint(val)
	}
}

func renderNumber(v float64, unit string) string {
	switch unit {
	case "만원":
		return manwonLine(v)
	case "원":
		return wonLine(v)
	default:
		return formatNumber(v) + unit
	}
}
