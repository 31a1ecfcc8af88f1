package feedback

import (
	"time"

	"messmate/internal/menu"
)

type Feedback struct {
	ID        int           `db:"id" json:"id"`
	UserID    int           `db:"user_id" json:"user_id"`
	MealType  menu.MealType `db:"meal_type" json:"meal_type"`
	MealDate  time.Time     `db:"meal_date" json:"meal_date"`
	Rating    int           `db:"rating" json:"rating"`
	Comment   string        `db:"comment" json:"comment"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

type FeedbackWithUser struct {
	Feedback
	UserName string `db:"user_name" json:"user_name"`
}

type CreateFeedbackRequest struct {
	MealType string `json:"meal_type" binding:"required,mealtype"`
	MealDate string `json:"meal_date" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment" binding:"max=1000"`
}
