package token

import (
	"context"
	"time"
)

type Repository interface {
	CreateToken(ctx context.Context, bookingID int, value string, expiresAt time.Time) (*Token, error)
	GetByValue(ctx context.Context, value string) (*Token, error)
	Consume(ctx context.Context, value string) (*Token, error)
}
