package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 219.97, Round2(219.970000000001))
	assert.Equal(t, 2.0, Round2(1.999))
	assert.Equal(t, 0.3, Round2(0.1+0.1+0.1))
	assert.Equal(t, -1.5, Round2(-1.499999))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "wireless-mouse", Slugify("Wireless Mouse"))
	assert.Equal(t, "deluxe-mug-2-pack", Slugify("  Deluxe Mug (2-pack)!  "))
	assert.Equal(t, "a-b-c", Slugify("a---b___c"))
	assert.Empty(t, Slugify("!!!"))
}

func TestNewSlugAppendsSuffix(t *testing.T) {
	slug := NewSlug("Wireless Mouse")
	assert.True(t, strings.HasPrefix(slug, "wireless-mouse-"))
}

func TestGenerateID(t *testing.T) {
	id := GenerateID("p", 12)
	assert.Len(t, id, 13)
	assert.Equal(t, byte('p'), id[0])
	assert.NotEqual(t, GenerateID("p", 12), GenerateID("p", 12))
}

func TestNewOrderNumber(t *testing.T) {
	n := NewOrderNumber()
	assert.True(t, strings.HasPrefix(n, "ORD-"))
	assert.Len(t, strings.Split(n, "-"), 3)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(25, 2, 10)
	assert.Equal(t, int64(25), p.TotalDocs)
	assert.Equal(t, int64(3), p.TotalPages)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)

	p = NewPagination(5, 1, 10)
	assert.Equal(t, int64(1), p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)

	p = NewPagination(0, 1, 10)
	assert.Equal(t, int64(0), p.TotalPages)
	assert.False(t, p.HasNextPage)
}
