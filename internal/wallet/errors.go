package wallet

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// InsufficientBalanceError carries the shortfall so callers can render
// an exact "top up X" message. errors.Is(err, ErrInsufficientBalance)
// matches it.
type InsufficientBalanceError struct {
	ShortfallCents int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: short by %d cents", e.ShortfallCents)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
