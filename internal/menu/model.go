package menu

import "time"

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnacks    MealType = "snacks"
)

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnacks:
		return true
	}
	return false
}

// Item is one meal offered on one day. WindowStart/WindowEnd bound the
// serving window; Capacity bounds how many plates the mess can serve.
type Item struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	MealType    MealType  `db:"meal_type" json:"meal_type"`
	MealDate    time.Time `db:"meal_date" json:"meal_date"`
	WindowStart time.Time `db:"window_start" json:"window_start"`
	WindowEnd   time.Time `db:"window_end" json:"window_end"`
	PriceCents  int64     `db:"price_cents" json:"price_cents"`
	Capacity    int       `db:"capacity" json:"capacity"`
	Available   bool      `db:"available" json:"available"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type ItemWithAvailability struct {
	Item
	BookedCount int  `db:"booked_count" json:"booked_count"`
	Remaining   int  `json:"remaining"`
	IsFull      bool `json:"is_full"`
}

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	MealType    string `json:"meal_type" binding:"required,mealtype"`
	MealDate    string `json:"meal_date" binding:"required"`
	WindowStart string `json:"window_start" binding:"required"`
	WindowEnd   string `json:"window_end" binding:"required"`
	PriceCents  int64  `json:"price_cents" binding:"required,gt=0"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
}

type UpdateAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}
