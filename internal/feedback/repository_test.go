package feedback

import (
	"context"
	"testing"
	"time"

	"messmate/internal/menu"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupFeedbackMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestCreateFeedback(t *testing.T) {
	repo, mock, close := setupFeedbackMock(t)
	defer close()

	mealDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO feedback").
		WithArgs(1, menu.MealLunch, mealDate, 4, "Dal was great").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "meal_type", "meal_date", "rating", "comment", "created_at"}).
			AddRow(1, 1, "lunch", mealDate, 4, "Dal was great", time.Now()))

	fb, err := repo.Create(context.Background(), 1, menu.MealLunch, mealDate, 4, "Dal was great")
	require.NoError(t, err)
	require.Equal(t, 4, fb.Rating)
	require.Equal(t, menu.MealLunch, fb.MealType)
}

func TestListByDate_JoinsUserName(t *testing.T) {
	repo, mock, close := setupFeedbackMock(t)
	defer close()

	mealDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "user_id", "meal_type", "meal_date", "rating", "comment", "created_at", "user_name"}).
		AddRow(2, 1, "lunch", mealDate, 5, "", time.Now(), "Asha").
		AddRow(1, 2, "lunch", mealDate, 2, "Too salty", time.Now(), "Ravi")

	mock.ExpectQuery("JOIN users").
		WithArgs(mealDate).
		WillReturnRows(rows)

	items, err := repo.ListByDate(context.Background(), mealDate)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Asha", items[0].UserName)
	require.Equal(t, 2, items[1].Rating)
}

func TestListByUser(t *testing.T) {
	repo, mock, close := setupFeedbackMock(t)
	defer close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "meal_type", "meal_date", "rating", "comment", "created_at"}).
		AddRow(1, 1, "dinner", time.Now(), 3, "", time.Now())

	mock.ExpectQuery("FROM feedback").
		WithArgs(1).
		WillReturnRows(rows)

	items, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
}
