package member

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.COM \n"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestAddProductSetSemantics(t *testing.T) {
	rec := &Record{}
	rec.AddProduct("P1")
	rec.AddProduct("P1")
	rec.AddProduct("P2")
	assert.Equal(t, []string{"P1", "P2"}, rec.ActiveProducts)
}

func TestRemoveProduct(t *testing.T) {
	rec := &Record{ActiveProducts: []string{"P1", "P2"}}
	rec.RemoveProduct("P1")
	assert.Equal(t, []string{"P2"}, rec.ActiveProducts)

	rec.RemoveProduct("P9")
	assert.Equal(t, []string{"P2"}, rec.ActiveProducts)
}

func TestHasAccess(t *testing.T) {
	assert.False(t, (&Record{}).HasAccess())
	assert.True(t, (&Record{ActiveProducts: []string{"P1"}}).HasAccess())
}

func TestBoundTo(t *testing.T) {
	id := int64(111)
	rec := &Record{TelegramID: &id}
	assert.True(t, rec.BoundTo(111))
	assert.False(t, rec.BoundTo(222))
	assert.False(t, (&Record{}).BoundTo(111))
}
