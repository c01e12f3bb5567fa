package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxConfessionLength = 280

var Categories = []string{"Love", "Secret", "Funny", "Vent", "Dream"}

// Confession is one feed record. Canonical copies live in the remote store;
// Pending marks a locally inserted optimistic copy that has not yet come back
// in a server snapshot.
type Confession struct {
	ID          string
	Content     string
	Category    string
	Likes       int64
	IsPremium   bool
	CreatedAt   time.Time
	TxSignature string
	Pending     bool
}

func (c Confession) Validate() error {
	content := strings.TrimSpace(c.Content)
	if content == "" {
		return fmt.Errorf("content is required")
	}
	if utf8.RuneCountInString(content) > MaxConfessionLength {
		return fmt.Errorf("content exceeds %d characters", MaxConfessionLength)
	}
	if !validCategory(c.Category) {
		return fmt.Errorf("unknown category %q", c.Category)
	}

	return nil
}

func validCategory(category string) bool {
	for _, known := range Categories {
		if category == known {
			return true
		}
	}
	return false
}

const (
	MinProfileAge   = 18
	MaxProfileAge   = 99
	MaxInterestTags = 5
)

// MatchProfile is a matchmaking preference registration. The confidential
// matching itself runs elsewhere; this layer only anchors and stores the
// registration.
type MatchProfile struct {
	Address     string
	Interests   []int
	AgeMin      int
	AgeMax      int
	Age         int
	LookingFor  int
	CreatedAt   time.Time
	TxSignature string
}

func (p MatchProfile) Validate() error {
	if len(p.Interests) == 0 {
		return fmt.Errorf("at least one interest is required")
	}
	if len(p.Interests) > MaxInterestTags {
		return fmt.Errorf("at most %d interests are allowed", MaxInterestTags)
	}
	if p.AgeMin < MinProfileAge || p.AgeMax > MaxProfileAge {
		return fmt.Errorf("age range must stay within %d-%d", MinProfileAge, MaxProfileAge)
	}
	if p.AgeMin > p.AgeMax {
		return fmt.Errorf("age range minimum exceeds maximum")
	}
	if p.Age < MinProfileAge || p.Age > MaxProfileAge {
		return fmt.Errorf("age must be within %d-%d", MinProfileAge, MaxProfileAge)
	}

	return nil
}

// PurchaseReceipt records a premium purchase transfer.
type PurchaseReceipt struct {
	Address     string
	Lamports    uint64
	CreatedAt   time.Time
	TxSignature string
}
