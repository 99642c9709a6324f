package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CategoryType string

const (
	CategoryTypeBills          CategoryType = "bills"
	CategoryTypeWants          CategoryType = "wants"
	CategoryTypeNeeds          CategoryType = "needs"
	CategoryTypeGrocery        CategoryType = "grocery"
	CategoryTypeSchool         CategoryType = "school"
	CategoryTypeAllowance      CategoryType = "allowance"
	CategoryTypeLoad           CategoryType = "load"
	CategoryTypeTransportation CategoryType = "transportation"
	CategoryTypeFood           CategoryType = "food"
	CategoryTypeEntertainment  CategoryType = "entertainment"
	CategoryTypeHealth         CategoryType = "health"
	CategoryTypeSavings        CategoryType = "savings"
	CategoryTypeOther          CategoryType = "other"
	CategoryTypeIncome         CategoryType = "income"
)

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	switch t {
	case CategoryTypeBills, CategoryTypeWants, CategoryTypeNeeds, CategoryTypeGrocery,
		CategoryTypeSchool, CategoryTypeAllowance, CategoryTypeLoad, CategoryTypeTransportation,
		CategoryTypeFood, CategoryTypeEntertainment, CategoryTypeHealth, CategoryTypeSavings,
		CategoryTypeOther, CategoryTypeIncome:
		return true
	}
	return false
}

// Category tags transactions and budgets. Name is unique per user.
type Category struct {
	ID        int32        `json:"id"`
	UserID    uuid.UUID    `json:"userId"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"categoryType"`
	Color     string       `json:"color"`
	CreatedAt time.Time    `json:"createdAt"`
}

// DefaultCategories returns the category set seeded at registration.
func DefaultCategories(userID uuid.UUID) []*Category {
	defaults := []struct {
		name  string
		typ   CategoryType
		color string
	}{
		{"Bills", CategoryTypeBills, "#dc3545"},
		{"Wants", CategoryTypeWants, "#8b5cf6"},
		{"Needs", CategoryTypeNeeds, "#6f42c1"},
		{"Grocery", CategoryTypeGrocery, "#28a745"},
		{"School/Education", CategoryTypeSchool, "#007bff"},
		{"Daily Allowance", CategoryTypeAllowance, "#ffc107"},
		{"Mobile Load", CategoryTypeLoad, "#17a2b8"},
		{"Transportation", CategoryTypeTransportation, "#6c757d"},
		{"Food & Dining", CategoryTypeFood, "#fd7e14"},
		{"Entertainment", CategoryTypeEntertainment, "#e83e8c"},
		{"Health & Medical", CategoryTypeHealth, "#20c997"},
		{"Savings", CategoryTypeSavings, "#6f42c1"},
		{"Other", CategoryTypeOther, "#6c757d"},
	}

	categories := make([]*Category, len(defaults))
	for i, d := range defaults {
		categories[i] = &Category{
			UserID: userID,
			Name:   d.name,
			Type:   d.typ,
			Color:  d.color,
		}
	}
	return categories
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Category, error)
	GetByType(ctx context.Context, userID uuid.UUID, categoryType CategoryType) (*Category, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*Category, error)
}
