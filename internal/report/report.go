// Package report renders the monthly summary as markdown and HTML.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"fintrack/internal/models"
	"fintrack/pkg/calendar"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.md
var templates embed.FS

var hundred = decimal.NewFromInt(100)

// Line is one category row of the summary.
type Line struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
	Share  decimal.Decimal `json:"share"`
}

type WalletLine struct {
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

type Monthly struct {
	Year     int                      `json:"year"`
	Month    time.Month               `json:"month"`
	From     time.Time                `json:"from"`
	To       time.Time                `json:"to"`
	Currency string                   `json:"currency"`
	Income   decimal.Decimal          `json:"income"`
	Expense  decimal.Decimal          `json:"expense"`
	Net      decimal.Decimal          `json:"net"`
	Incomes  []Line                   `json:"incomes"`
	Expenses []Line                   `json:"expenses"`
	Budgets  []*models.BudgetProgress `json:"budgets"`
	Wallets  []WalletLine             `json:"wallets"`
}

// NewMonthly aggregates category totals into a summary. Uncategorized rows
// are reported as "Uncategorized".
func NewMonthly(year int, month time.Month, currency string, totals []models.CategoryTotal) *Monthly {
	rng := calendar.MonthRange(year, month)
	m := &Monthly{
		Year:     year,
		Month:    month,
		From:     rng.From,
		To:       rng.To,
		Currency: currency,
		Incomes:  []Line{},
		Expenses: []Line{},
		Budgets:  []*models.BudgetProgress{},
		Wallets:  []WalletLine{},
	}
	for _, t := range totals {
		name := t.CategoryName
		if name == "" {
			name = "Uncategorized"
		}
		line := Line{Name: name, Amount: t.Amount, Count: t.Count}
		switch t.Type {
		case models.TransactionTypeIncome:
			m.Income = m.Income.Add(t.Amount)
			m.Incomes = append(m.Incomes, line)
		case models.TransactionTypeExpense:
			m.Expense = m.Expense.Add(t.Amount)
			m.Expenses = append(m.Expenses, line)
		}
	}
	m.Net = m.Income.Sub(m.Expense)
	share(m.Incomes, m.Income)
	share(m.Expenses, m.Expense)
	return m
}

func share(lines []Line, total decimal.Decimal) {
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Amount.GreaterThan(lines[j].Amount) })
	if !total.IsPositive() {
		return
	}
	for i := range lines {
		lines[i].Share = lines[i].Amount.Div(total).Mul(hundred).Round(1)
	}
}

// FormatMoney formats amount in its currency, e.g. "$1,234.50". Unknown
// currency codes fall back to "1234.50 XYZ".
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), currency).Display()
}

// Markdown renders the summary.
func Markdown(m *Monthly) (string, error) {
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return FormatMoney(d, m.Currency) },
		"pct":   func(d decimal.Decimal) string { return d.StringFixed(1) + "%" },
		"date":  func(t time.Time) string { return t.Format(calendar.DateFormat) },
		"walletMoney": func(w WalletLine) string {
			return FormatMoney(w.Balance, w.Currency)
		},
	}
	tmpl, err := template.New("monthly.md").Funcs(funcs).ParseFS(templates, "templates/monthly.md")
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, m); err != nil {
		return "", fmt.Errorf("render monthly report: %w", err)
	}
	return b.String(), nil
}

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts rendered markdown to an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
