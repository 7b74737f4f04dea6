package model

import "fmt"

// ErrUniqueConstraintViolation is returned when an object insertion violates
// a unique constraint.
type ErrUniqueConstraintViolation struct {
	Err error
}

func (e ErrUniqueConstraintViolation) Error() string {
	return fmt.Sprintf(
		"Unique constraint violation in %s", e.Err.Error())
}

// ErrInsufficientBalance is returned when a transfer leg would debit a
// holding below zero.
type ErrInsufficientBalance struct {
	Holder    string
	Available uint64
	Required  uint64
}

func (e ErrInsufficientBalance) Error() string {
	return fmt.Sprintf(
		"Insufficient balance for %s: available=%d required=%d",
		e.Holder, e.Available, e.Required)
}

// ErrBalanceOverflow is returned when a transfer leg would credit a holding
// above the representable range.
type ErrBalanceOverflow struct {
	Holder string
}

func (e ErrBalanceOverflow) Error() string {
	return fmt.Sprintf(
		"Balance overflow for %s", e.Holder)
}

// ErrUnauthorizedSigner is returned when a transfer or mint leg is not
// signed by an identity recognized as controlling the debited resource.
type ErrUnauthorizedSigner struct {
	Signer   string
	Resource string
}

func (e ErrUnauthorizedSigner) Error() string {
	return fmt.Sprintf(
		"Signer %s is not authorized to control %s", e.Signer, e.Resource)
}
