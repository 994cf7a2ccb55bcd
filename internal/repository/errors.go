package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist (or is not visible to
	// the requesting owner).
	ErrNotFound = errors.New("not found")

	// ErrAlreadyProcessed is returned when the processing ledger's uniqueness
	// constraint rejects a duplicate (template, month) materialization.
	ErrAlreadyProcessed = errors.New("already processed for month")
)
