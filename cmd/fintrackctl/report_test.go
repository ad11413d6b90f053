package main

import (
	"strings"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/report"

	"github.com/shopspring/decimal"
)

func sampleReport() *report.Monthly {
	return report.NewMonthly(2024, time.March, "USD", []models.CategoryTotal{
		{Type: models.TransactionTypeIncome, CategoryName: "Salary", Amount: decimal.NewFromInt(3000), Count: 1},
		{Type: models.TransactionTypeExpense, CategoryName: "Food", Amount: decimal.NewFromInt(450), Count: 12},
	})
}

func TestRender(t *testing.T) {
	testCases := []struct {
		format string
		want   string
	}{
		{format: "markdown", want: "| Food | 12 |"},
		{format: "md", want: "# Monthly report"},
		{format: "html", want: "<table>"},
		{format: "json", want: `"currency": "USD"`},
		{format: "ansi", want: "Food"},
	}
	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			out, err := render(sampleReport(), tc.format)
			if err != nil {
				t.Fatalf("render() unexpected error = %v", err)
			}
			if !strings.Contains(out, tc.want) {
				t.Errorf("render() output missing %q:\n%s", tc.want, out)
			}
		})
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if _, err := render(sampleReport(), "pdf"); err == nil {
		t.Error("render() expected error for unknown format")
	}
}
