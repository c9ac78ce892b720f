package models

import "time"

// Expense mirrors the Expense API resource.
type Expense struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Title     string     `json:"title"`
	Amount    float64    `json:"amount"`
	Category  string     `json:"category"`
	Date      string     `json:"date"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// ExpenseInput is the writable part of an expense.
type ExpenseInput struct {
	UserID   int64   `json:"userId,omitempty"`
	Title    string  `json:"title" validate:"required"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	Category string  `json:"category" validate:"required,oneof=food transport shopping entertainment bills health education other"`
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
}

// Categories lists the accepted category ids in display order.
var Categories = []string{"food", "transport", "shopping", "entertainment", "bills", "health", "education", "other"}

// TotalAmount sums the amounts of expenses.
func TotalAmount(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}
