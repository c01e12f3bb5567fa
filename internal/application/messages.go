package application

import (
	"errors"
	"unicode/utf8"

	"github.com/whisprhq/whispr-cli/internal/domain"
)

const maxUserMessageLength = 80

// UserMessage flattens any failure from this layer into a single
// display string. No structured error crosses into the presentation layer;
// every failure here is recoverable by user retry.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNotConnected):
		return "Wallet not connected"
	case errors.Is(err, domain.ErrSigningFailure):
		return "Could not sign the transaction"
	case errors.Is(err, domain.ErrSubmissionFailure):
		return "Could not submit the transaction"
	case errors.Is(err, domain.ErrConfirmationTimeout):
		return "Confirmation timed out; the transfer may still land"
	case errors.Is(err, domain.ErrStoreWrite):
		return "Could not save the record"
	case errors.Is(err, domain.ErrNotSubscribed):
		return "Feed is not connected"
	default:
		return truncate(err.Error(), maxUserMessageLength)
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return string(runes[:limit])
}
