package feedback

import (
	"context"
	"time"

	"messmate/internal/menu"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, userID int, mealType menu.MealType, mealDate time.Time, rating int, comment string) (*Feedback, error) {
	query := `
		INSERT INTO feedback (user_id, meal_type, meal_date, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, meal_type, meal_date, rating, comment, created_at
	`

	var fb Feedback
	err := r.db.GetContext(ctx, &fb, query, userID, mealType, mealDate, rating, comment)
	if err != nil {
		return nil, err
	}

	return &fb, nil
}

func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]FeedbackWithUser, error) {
	query := `
		SELECT f.id, f.user_id, f.meal_type, f.meal_date, f.rating, f.comment, f.created_at,
		       u.name AS user_name
		FROM feedback f
		JOIN users u ON f.user_id = u.id
		WHERE f.meal_date = $1
		ORDER BY f.created_at DESC
	`

	var items []FeedbackWithUser
	err := r.db.SelectContext(ctx, &items, query, date)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int) ([]Feedback, error) {
	query := `
		SELECT id, user_id, meal_type, meal_date, rating, comment, created_at
		FROM feedback
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var items []Feedback
	err := r.db.SelectContext(ctx, &items, query, userID)
	if err != nil {
		return nil, err
	}

	return items, nil
}
