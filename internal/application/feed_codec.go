package application

import (
	"time"

	"github.com/whisprhq/whispr-cli/internal/domain"
)

// Store field names shared with the web clients writing the same collections.
const (
	fieldContent     = "content"
	fieldCategory    = "category"
	fieldLikes       = "likes"
	fieldIsPremium   = "isPremium"
	fieldTxSignature = "txSignature"
	fieldCreatedAt   = "createdAt"
)

func confessionStoreValue(c domain.Confession) map[string]any {
	return map[string]any{
		fieldContent:     c.Content,
		fieldCategory:    c.Category,
		fieldLikes:       c.Likes,
		fieldIsPremium:   c.IsPremium,
		fieldTxSignature: c.TxSignature,
		fieldCreatedAt:   c.CreatedAt.UnixMilli(),
	}
}

func confessionFromSnapshot(key string, value map[string]any) domain.Confession {
	return domain.Confession{
		ID:          key,
		Content:     asString(value[fieldContent]),
		Category:    asString(value[fieldCategory]),
		Likes:       asInt64(value[fieldLikes]),
		IsPremium:   asBool(value[fieldIsPremium]),
		TxSignature: asString(value[fieldTxSignature]),
		CreatedAt:   time.UnixMilli(asInt64(value[fieldCreatedAt])).UTC(),
	}
}

func profileStoreValue(p domain.MatchProfile) map[string]any {
	interests := make([]any, 0, len(p.Interests))
	for _, interest := range p.Interests {
		interests = append(interests, int64(interest))
	}

	return map[string]any{
		"address":        p.Address,
		"interests":      interests,
		"ageMin":         int64(p.AgeMin),
		"ageMax":         int64(p.AgeMax),
		"age":            int64(p.Age),
		"lookingFor":     int64(p.LookingFor),
		fieldTxSignature: p.TxSignature,
		fieldCreatedAt:   p.CreatedAt.UnixMilli(),
	}
}

func receiptStoreValue(r domain.PurchaseReceipt) map[string]any {
	return map[string]any{
		"address":        r.Address,
		"lamports":       int64(r.Lamports),
		fieldTxSignature: r.TxSignature,
		fieldCreatedAt:   r.CreatedAt.UnixMilli(),
	}
}

// Snapshot values arrive as generic JSON: numbers may decode as float64 or
// int64 depending on the transport.
func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
