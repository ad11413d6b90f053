package models

import (
	"time"

	"github.com/google/uuid"
)

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

const (
	DefaultCategoryColor = "#6366F1"
	DefaultCategoryIcon  = "tag"
)

type Category struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	UserID    uuid.UUID    `db:"user_id" json:"user_id"`
	Name      string       `db:"name" json:"name"`
	Type      CategoryType `db:"type" json:"type"`
	Color     string       `db:"color" json:"color"`
	Icon      string       `db:"icon" json:"icon"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// DefaultCategories are created for every new user.
var DefaultCategories = []Category{
	{Name: "Salary", Type: CategoryTypeIncome, Color: "#16A34A", Icon: "briefcase"},
	{Name: "Other income", Type: CategoryTypeIncome, Color: "#22C55E", Icon: "plus"},
	{Name: "Food", Type: CategoryTypeExpense, Color: "#F97316", Icon: "utensils"},
	{Name: "Transport", Type: CategoryTypeExpense, Color: "#0EA5E9", Icon: "bus"},
	{Name: "Utilities", Type: CategoryTypeExpense, Color: "#EAB308", Icon: "bolt"},
	{Name: "Shopping", Type: CategoryTypeExpense, Color: "#EC4899", Icon: "bag"},
	{Name: "Entertainment", Type: CategoryTypeExpense, Color: "#8B5CF6", Icon: "film"},
	{Name: "Healthcare", Type: CategoryTypeExpense, Color: "#EF4444", Icon: "heart"},
	{Name: "Education", Type: CategoryTypeExpense, Color: "#14B8A6", Icon: "book"},
	{Name: "Other", Type: CategoryTypeExpense, Color: DefaultCategoryColor, Icon: DefaultCategoryIcon},
}
