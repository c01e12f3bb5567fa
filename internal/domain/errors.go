package domain

import "errors"

var (
	ErrNotConnected        = errors.New("wallet not connected")
	ErrSigningFailure      = errors.New("transaction signing failed")
	ErrSubmissionFailure   = errors.New("transaction submission failed")
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")
	ErrStoreWrite          = errors.New("remote store write failed")
	ErrEligibilityCheck    = errors.New("eligibility check failed")
	ErrRecordNotFound      = errors.New("record not found")
	ErrNotSubscribed       = errors.New("mirror is not subscribed")
)
