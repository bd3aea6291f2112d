package utility

import (
	"math/rand"
	"strings"
)

const digits = "0123456789"

// GenerateRandomDigits returns n random decimal digits. It is used for file
// names and document suffixes, not for secrets.
func GenerateRandomDigits(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(digits[rand.Intn(len(digits))])
	}
	return b.String()
}
