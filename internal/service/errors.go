package service

import (
	"errors"
	"fmt"

	"fintrack/internal/repository"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrOverpayment   = errors.New("payment exceeds remaining balance")
)

// storeErr maps storage errors onto service errors. Unknown errors pass
// through unchanged.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case repository.IsNotFound(err):
		return ErrNotFound
	case repository.IsUniqueViolation(err):
		return ErrConflict
	case repository.IsForeignKeyViolation(err):
		return invalid("referenced record does not exist")
	case repository.IsCheckViolation(err):
		return invalid("value out of range")
	}
	return err
}

// positiveAmount rounds to cents. Amounts that round to zero or below are
// rejected, so nothing the database would refuse gets past validation.
func positiveAmount(d decimal.Decimal) (decimal.Decimal, error) {
	amount := d.Round(2)
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
