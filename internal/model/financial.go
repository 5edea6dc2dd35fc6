package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FinancialContext is the caller supplied profile snapshot. Income and asset
// totals are in 만원, monthly budget categories in 원.
type FinancialContext struct {
	Name           string  `json:"name"`
	Age            float64 `json:"age"`
	MonthlyIncome  float64 `json:"monthlyIncome"`
	TotalAssets    float64 `json:"totalAssets"`
	TotalDebt      float64 `json:"totalDebt"`
	NetAssets      float64 `json:"netAssets"`
	WealthIndex    float64 `json:"wealthIndex"`
	FinancialLevel float64 `json:"financialLevel"`
	HouseName      string  `json:"houseName"`
	LivingExpense  float64 `json:"livingExpense"`
	Savings        float64 `json:"savings"`
	Pension        float64 `json:"pension"`
	Insurance      float64 `json:"insurance"`
	LoanPayment    float64 `json:"loanPayment"`
	Surplus        float64 `json:"surplus"`
}

// DerivedNetAssets falls back to assets minus debt when the caller did not send it.
func (f *FinancialContext) DerivedNetAssets() float64 {
	if f == nil {
		return 0
	}
	if f.NetAssets != 0 {
		return f.NetAssets
	}
	return f.TotalAssets - f.TotalDebt
}

// DerivedSurplus is the monthly remainder in 원 after the five budget categories.
func (f *FinancialContext) DerivedSurplus() float64 {
	if f == nil {
		return 0
	}
	if f.Surplus != 0 || f.MonthlyIncome <= 0 {
		return f.Surplus
	}
	spent := f.LivingExpense + f.Savings + f.Pension + f.Insurance + f.LoanPayment
	return f.MonthlyIncome*10000 - spent
}

type BudgetInfo struct {
	DailyBudget     float64 `json:"dailyBudget"`
	TodaySpent      float64 `json:"todaySpent"`
	RemainingBudget float64 `json:"remainingBudget"`
}

// UnmarshalJSON never fails on a field value: numbers may arrive as JSON
// numbers or numeric strings, anything else reads as 0.
func (f *FinancialContext) UnmarshalJSON(data []byte) error {
	fields := looseObject(data)
	*f = FinancialContext{
		Name:           looseString(fields["name"]),
		Age:            looseNumber(fields["age"]),
		MonthlyIncome:  looseNumber(fields["monthlyIncome"]),
		TotalAssets:    looseNumber(fields["totalAssets"]),
		TotalDebt:      looseNumber(fields["totalDebt"]),
		NetAssets:      looseNumber(fields["netAssets"]),
		WealthIndex:    looseNumber(fields["wealthIndex"]),
		FinancialLevel: looseNumber(fields["financialLevel"]),
		HouseName:      looseString(fields["houseName"]),
		LivingExpense:  looseNumber(fields["livingExpense"]),
		Savings:        looseNumber(fields["savings"]),
		Pension:        looseNumber(fields["pension"]),
		Insurance:      looseNumber(fields["insurance"]),
		LoanPayment:    looseNumber(fields["loanPayment"]),
		Surplus:        looseNumber(fields["surplus"]),
	}
	return nil
}

func (b *BudgetInfo) UnmarshalJSON(data []byte) error {
	fields := looseObject(data)
	*b = BudgetInfo{
		DailyBudget:     looseNumber(fields["dailyBudget"]),
		TodaySpent:      looseNumber(fields["todaySpent"]),
		RemainingBudget: looseNumber(fields["remainingBudget"]),
	}
	return nil
}

// looseObject returns nil for anything that is not a JSON object.
func looseObject(data []byte) map[string]json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}

func looseNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func looseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

// DesignPlan is one flat mapping of named numeric or percentage fields.
// A nil plan means the section was not sent.
type DesignPlan map[string]interface{}

type DesignData struct {
	Job           string `json:"job,omitempty"`
	HousingType   string `json:"housingType,omitempty"`
	FinancialGoal string `json:"financialGoal,omitempty"`
	DesireLevel   string `json:"desireLevel,omitempty"`

	Retire    DesignPlan `json:"retire,omitempty"`
	Debt      DesignPlan `json:"debt,omitempty"`
	Save      DesignPlan `json:"save,omitempty"`
	Invest    DesignPlan `json:"invest,omitempty"`
	Tax       DesignPlan `json:"tax,omitempty"`
	Estate    DesignPlan `json:"estate,omitempty"`
	Insurance DesignPlan `json:"insurance,omitempty"`
}

// AnalysisContext is a previously extracted OCR result.
type AnalysisContext struct {
	FileName string `json:"fileName"`
	Text     string `json:"text"`
}

func (a *AnalysisContext) UnmarshalJSON(data []byte) error {
	var raw struct {
		FileName string `json:"fileName"`
		Text     string `json:"text"`
		Analysis string `json:"analysis"`
		Content  string `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.FileName = raw.FileName
	a.Text = raw.Text
	if a.Text == "" {
		a.Text = raw.Analysis
	}
	if a.Text == "" {
		a.Text = raw.Content
	}
	return nil
}

func (a *AnalysisContext) Present() bool {
	return a != nil && strings.TrimSpace(a.Text) != ""
}
