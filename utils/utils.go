package utils

import (
	"fmt"
	"math"
	rndm "math/rand"
	"regexp"
	"strings"
	"time"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GenerateID returns a prefixed random entity id, e.g. "p3kfA9x2Lq".
func GenerateID(prefix string, n int) string {
	return prefix + GenerateRandomString(n)
}

// NewOrderNumber produces a human-readable order number. A unique index on
// the orders collection backstops the (unlikely) collision.
func NewOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%05d", time.Now().UnixMilli(), rndm.Intn(100000))
}

// --- Money ---

// Round2 rounds to two decimal places, the precision of every monetary
// field in the API.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// --- Slugs ---

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and strips a name down to URL-safe characters.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NewSlug appends a random suffix so that two products with the same name
// still get distinct slugs.
func NewSlug(name string) string {
	return fmt.Sprintf("%s-%d", Slugify(name), rndm.Intn(1000))
}
