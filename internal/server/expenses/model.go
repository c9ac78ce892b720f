package expenses

import "time"

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

// Input is the writable part of an expense as sent by clients.
type Input struct {
	UserID   int64   `json:"userId"`
	Title    string  `json:"title" validate:"required,max=200"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	Category string  `json:"category" validate:"required,oneof=food transport shopping entertainment bills health education other"`
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
}
