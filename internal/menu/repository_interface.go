package menu

import (
	"context"
	"time"
)

type Repository interface {
	CreateItem(ctx context.Context, name string, mealType MealType, mealDate, windowStart, windowEnd time.Time, priceCents int64, capacity int) (*Item, error)
	GetItemByID(ctx context.Context, id int) (*Item, error)
	GetItemsByDate(ctx context.Context, date time.Time) ([]ItemWithAvailability, error)
	SetAvailability(ctx context.Context, id int, available bool) error
}
