package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFinancialContextLenientNumbers(t *testing.T) {
	var fc FinancialContext
	err := json.Unmarshal([]byte(`{
		"name": "민수",
		"age": "30",
		"monthlyIncome": "1,200",
		"totalAssets": 5000,
		"totalDebt": null,
		"wealthIndex": "high",
		"savings": true,
		"houseName": 3
	}`), &fc)
	require.NoError(t, err)
	require.Equal(t, "민수", fc.Name)
	require.Equal(t, float64(30), fc.Age)
	require.Equal(t, float64(1200), fc.MonthlyIncome)
	require.Equal(t, float64(5000), fc.TotalAssets)
	require.Zero(t, fc.TotalDebt)
	require.Zero(t, fc.WealthIndex)
	require.Zero(t, fc.Savings)
	require.Equal(t, "3", fc.HouseName)
	require.Equal(t, float64(5000), fc.DerivedNetAssets())
}

func TestFinancialContextNotAnObject(t *testing.T) {
	var msg struct {
		Financial *FinancialContext `json:"financialContext"`
		Budget    *BudgetInfo       `json:"budgetInfo"`
	}
	err := json.Unmarshal([]byte(`{"financialContext":"oops","budgetInfo":[1,2]}`), &msg)
	require.NoError(t, err)
	require.NotNil(t, msg.Financial)
	require.Equal(t, FinancialContext{}, *msg.Financial)
	require.Equal(t, BudgetInfo{}, *msg.Budget)
}

func TestBudgetInfoLenientNumbers(t *testing.T) {
	var b BudgetInfo
	require.NoError(t, json.Unmarshal([]byte(`{"dailyBudget":"30000","todaySpent":12000,"remainingBudget":"NaN"}`), &b))
	require.Equal(t, float64(30000), b.DailyBudget)
	require.Equal(t, float64(12000), b.TodaySpent)
	require.Zero(t, b.RemainingBudget)
}

func TestAnalysisContextAliases(t *testing.T) {
	var a AnalysisContext
	require.NoError(t, json.Unmarshal([]byte(`{"fileName":"r.png","analysis":"합계 3만원"}`), &a))
	require.Equal(t, "합계 3만원", a.Text)
	require.True(t, a.Present())
}
