package menu

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateItem(ctx context.Context, name string, mealType MealType, mealDate, windowStart, windowEnd time.Time, priceCents int64, capacity int) (*Item, error) {
	query := `
		INSERT INTO menu_items (name, meal_type, meal_date, window_start, window_end, price_cents, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, meal_type, meal_date, window_start, window_end, price_cents, capacity, available, created_at
	`

	var item Item
	err := r.db.GetContext(ctx, &item, query, name, mealType, mealDate, windowStart, windowEnd, priceCents, capacity)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) GetItemByID(ctx context.Context, id int) (*Item, error) {
	query := `
		SELECT id, name, meal_type, meal_date, window_start, window_end, price_cents, capacity, available, created_at
		FROM menu_items
		WHERE id = $1
	`

	var item Item
	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) GetItemsByDate(ctx context.Context, date time.Time) ([]ItemWithAvailability, error) {
	query := `
		SELECT
			m.id,
			m.name,
			m.meal_type,
			m.meal_date,
			m.window_start,
			m.window_end,
			m.price_cents,
			m.capacity,
			m.available,
			m.created_at,
			COUNT(b.id) FILTER (WHERE b.status = 'booked') AS booked_count
		FROM menu_items m
		LEFT JOIN bookings b ON b.menu_item_id = m.id
		WHERE m.meal_date = $1
		GROUP BY m.id
		ORDER BY m.window_start ASC
	`

	var items []ItemWithAvailability
	err := r.db.SelectContext(ctx, &items, query, date)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Remaining = items[i].Capacity - items[i].BookedCount
		if items[i].Remaining < 0 {
			items[i].Remaining = 0
		}
		items[i].IsFull = items[i].BookedCount >= items[i].Capacity
	}

	return items, nil
}

func (r *repository) SetAvailability(ctx context.Context, id int, available bool) error {
	query := `
		UPDATE menu_items
		SET available = $1
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, available, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}
