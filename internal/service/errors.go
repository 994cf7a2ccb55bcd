package service

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")

	ErrExpenseNotFound  = errors.New("expense not found")
	ErrTemplateNotFound = errors.New("recurring template not found")

	// Validation failures, rejected before any storage mutation.
	ErrInvalidDate          = errors.New("transaction date must be formatted as YYYY-MM-DD")
	ErrInvalidAmount        = errors.New("amount must be a positive decimal")
	ErrEmptyDescription     = errors.New("description is required")
	ErrBusinessWithPlanCode = errors.New("business expenses cannot carry an account plan code")
	ErrInvalidDayOfMonth    = errors.New("day of month must be between 1 and 31")
	ErrNotRecurringEligible = errors.New("account is not eligible for recurring expenses")
	ErrNotFirstInstallment  = errors.New("invoices attach to the first installment only")
	ErrMissingPeriod        = errors.New("year and month are required")
)
