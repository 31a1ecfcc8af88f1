package menu

import (
	"context"
	"errors"
	"time"
)

var (
	ErrItemNotFound = errors.New("menu item not found")
	ErrItemInvalid  = errors.New("invalid menu item")
)

type Service interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error)
	GetItemByID(ctx context.Context, id int) (*Item, error)
	GetMenuForDate(ctx context.Context, date time.Time) ([]ItemWithAvailability, error)
	SetAvailability(ctx context.Context, id int, available bool) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error) {
	mealType := MealType(req.MealType)
	if !mealType.Valid() {
		return nil, ErrItemInvalid
	}

	mealDate, err := time.Parse("2006-01-02", req.MealDate)
	if err != nil {
		return nil, ErrItemInvalid
	}

	windowStart, err := time.Parse(time.RFC3339, req.WindowStart)
	if err != nil {
		return nil, ErrItemInvalid
	}

	windowEnd, err := time.Parse(time.RFC3339, req.WindowEnd)
	if err != nil {
		return nil, ErrItemInvalid
	}

	if !windowEnd.After(windowStart) {
		return nil, ErrItemInvalid
	}

	if req.PriceCents <= 0 || req.Capacity <= 0 {
		return nil, ErrItemInvalid
	}

	return s.repo.CreateItem(ctx, req.Name, mealType, mealDate, windowStart, windowEnd, req.PriceCents, req.Capacity)
}

func (s *service) GetItemByID(ctx context.Context, id int) (*Item, error) {
	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (s *service) GetMenuForDate(ctx context.Context, date time.Time) ([]ItemWithAvailability, error) {
	return s.repo.GetItemsByDate(ctx, date)
}

func (s *service) SetAvailability(ctx context.Context, id int, available bool) error {
	return s.repo.SetAvailability(ctx, id, available)
}
