package menu

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMenuRepo struct{ mock.Mock }

func (m *MockMenuRepo) CreateItem(ctx context.Context, name string, mealType MealType, mealDate, windowStart, windowEnd time.Time, priceCents int64, capacity int) (*Item, error) {
	args := m.Called(ctx, name, mealType, mealDate, windowStart, windowEnd, priceCents, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockMenuRepo) GetItemByID(ctx context.Context, id int) (*Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockMenuRepo) GetItemsByDate(ctx context.Context, date time.Time) ([]ItemWithAvailability, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ItemWithAvailability), args.Error(1)
}

func (m *MockMenuRepo) SetAvailability(ctx context.Context, id int, available bool) error {
	return m.Called(ctx, id, available).Error(0)
}

func validCreateItemRequest() CreateItemRequest {
	return CreateItemRequest{
		Name:        "Masala Dosa",
		MealType:    "breakfast",
		MealDate:    "2026-09-02",
		WindowStart: "2026-09-02T07:30:00+05:30",
		WindowEnd:   "2026-09-02T09:30:00+05:30",
		PriceCents:  4000,
		Capacity:    150,
	}
}

func TestService_CreateItem(t *testing.T) {
	repo := new(MockMenuRepo)
	repo.On("CreateItem", mock.Anything, "Masala Dosa", MealBreakfast,
		mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"),
		int64(4000), 150).
		Return(&Item{ID: 1, Name: "Masala Dosa", MealType: MealBreakfast}, nil)

	svc := NewService(repo)

	item, err := svc.CreateItem(context.Background(), validCreateItemRequest())

	assert.NoError(t, err)
	assert.Equal(t, 1, item.ID)
	repo.AssertExpectations(t)
}

func TestService_CreateItem_Invalid(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(*CreateItemRequest)
	}{
		{"unknown meal type", func(r *CreateItemRequest) { r.MealType = "brunch" }},
		{"bad meal date", func(r *CreateItemRequest) { r.MealDate = "02-09-2026" }},
		{"bad window start", func(r *CreateItemRequest) { r.WindowStart = "7:30am" }},
		{"bad window end", func(r *CreateItemRequest) { r.WindowEnd = "" }},
		{"window end before start", func(r *CreateItemRequest) {
			r.WindowStart, r.WindowEnd = r.WindowEnd, r.WindowStart
		}},
		{"zero price", func(r *CreateItemRequest) { r.PriceCents = 0 }},
		{"zero capacity", func(r *CreateItemRequest) { r.Capacity = 0 }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateItemRequest()
			tt.mutate(&req)

			svc := NewService(new(MockMenuRepo))

			_, err := svc.CreateItem(context.Background(), req)
			assert.ErrorIs(t, err, ErrItemInvalid)
		})
	}
}

func TestService_GetItemByID_NotFound(t *testing.T) {
	repo := new(MockMenuRepo)
	repo.On("GetItemByID", mock.Anything, 99).Return(nil, ErrItemNotFound)

	svc := NewService(repo)

	_, err := svc.GetItemByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMealType_Valid(t *testing.T) {
	for _, mt := range []MealType{MealBreakfast, MealLunch, MealDinner, MealSnacks} {
		assert.True(t, mt.Valid(), string(mt))
	}
	assert.False(t, MealType("brunch").Valid())
	assert.False(t, MealType("").Valid())
}
