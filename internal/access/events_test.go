package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		event string
		want  EventKind
	}{
		{"PURCHASE_APPROVED", KindGrant},
		{"SUBSCRIPTION_CANCELLATION", KindRevoke},
		{"REFUNDED", KindRevoke},
		{"PURCHASE_REFUNDED", KindRevoke},
		{"PURCHASE_CANCELED", KindRevoke},
		{"COMPLETED", KindRevoke},
		{"PURCHASE_BILLET_PRINTED", KindUnknown},
		{"purchase_approved", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.event), "event %q", tt.event)
	}
}
