package member

import (
	"slices"
	"strings"
)

// Record is the per-subscriber state, keyed by normalized purchase email.
// ActiveProducts behaves as a set; a record with an empty set is kept
// around and simply means "previously subscribed, no access today".
type Record struct {
	TelegramID     *int64   `json:"telegram_id"`
	InviteLink     string   `json:"invite_link,omitempty"`
	ActiveProducts []string `json:"active_products"`
}

// NormalizeEmail canonicalizes the store key. Hotmart and Telegram users
// disagree on casing and whitespace, the store must not.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Record) HasAccess() bool {
	return len(r.ActiveProducts) > 0
}

func (r *Record) HasProduct(productID string) bool {
	return slices.Contains(r.ActiveProducts, productID)
}

// AddProduct inserts productID, keeping set semantics.
func (r *Record) AddProduct(productID string) {
	if !r.HasProduct(productID) {
		r.ActiveProducts = append(r.ActiveProducts, productID)
	}
}

// RemoveProduct deletes productID if present; removing an absent product
// is a no-op, not an error.
func (r *Record) RemoveProduct(productID string) {
	r.ActiveProducts = slices.DeleteFunc(r.ActiveProducts, func(id string) bool {
		return id == productID
	})
}

// BoundTo reports whether the record is bound to the given Telegram user.
func (r *Record) BoundTo(telegramID int64) bool {
	return r.TelegramID != nil && *r.TelegramID == telegramID
}

func (r *Record) clone() *Record {
	cp := *r
	cp.ActiveProducts = slices.Clone(r.ActiveProducts)
	if r.TelegramID != nil {
		id := *r.TelegramID
		cp.TelegramID = &id
	}
	return &cp
}
