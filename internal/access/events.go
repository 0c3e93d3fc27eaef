package access

// EventKind is the normalized commerce event class. Hotmart sends a zoo
// of event names; the core only distinguishes "gained a product" from
// "lost a product".
type EventKind int

const (
	KindUnknown EventKind = iota
	KindGrant
	KindRevoke
)

func (k EventKind) String() string {
	switch k {
	case KindGrant:
		return "grant"
	case KindRevoke:
		return "revoke"
	default:
		return "unknown"
	}
}

// KindOf maps a raw Hotmart event name to its kind. Unrecognized names
// map to KindUnknown and are acknowledged without touching state.
func KindOf(event string) EventKind {
	switch event {
	case "PURCHASE_APPROVED":
		return KindGrant
	case "SUBSCRIPTION_CANCELLATION",
		"REFUNDED",
		"PURCHASE_REFUNDED",
		"PURCHASE_CANCELED",
		"COMPLETED":
		return KindRevoke
	default:
		return KindUnknown
	}
}
