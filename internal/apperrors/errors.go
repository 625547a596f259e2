package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrSchoolNotFound  = errors.New("school not found")
	ErrSchoolCodeTaken = errors.New("school code already exists")

	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInvalidTransition = errors.New("unknown transaction status reported by gateway")

	ErrInvalidSignature = errors.New("invalid webhook signature key")
	ErrGateway          = errors.New("payment gateway request failed")

	ErrNothingToWithdraw = errors.New("no positive balances to withdraw")
)
