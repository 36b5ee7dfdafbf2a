package validation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	assert.True(t, Email("ana@example.com"))
	assert.True(t, Email("  ana@example.com  "))
	assert.False(t, Email("ana@example"))
	assert.False(t, Email("not an email"))
	assert.False(t, Email(""))
}

func TestPhone(t *testing.T) {
	assert.True(t, Phone("3001234567"))
	assert.True(t, Phone("+57 (300) 123-4567"))
	assert.False(t, Phone("123456"), "too few digits")
	assert.False(t, Phone("1234567890123456"), "too many digits")
	assert.False(t, Phone("tel: 3001234567"), "letters not allowed")
	assert.False(t, Phone(""))
}

func TestQuantity(t *testing.T) {
	assert.True(t, Quantity(1))
	assert.True(t, Quantity(100))
	assert.False(t, Quantity(0))
	assert.False(t, Quantity(-3))
	assert.False(t, Quantity(101))
}

func TestPrice(t *testing.T) {
	assert.True(t, Price(""))
	assert.True(t, Price("Gratis"))
	assert.True(t, Price("50000"))
	assert.True(t, Price("$50.000"))
	assert.True(t, Price("100000000"))
	assert.False(t, Price("100000001"), "over the cap")
	assert.False(t, Price("$$$"), "no digits at all")
}

func TestStatus(t *testing.T) {
	assert.True(t, Status("pagado"))
	assert.True(t, Status("entregado"))
	assert.True(t, Status("cancelado"))
	assert.False(t, Status("vendido"))
	assert.False(t, Status("PAGADO"))
	assert.False(t, Status(""))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Club Aurora", Sanitize("  Club <Aurora>  "))
	assert.Equal(t, "scriptalert(1)/script", Sanitize(`<script>alert('1')</script>`))

	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, Sanitize(string(long)), 500)
}

func TestSanitizeTruncatesOnRuneBoundary(t *testing.T) {
	// 499 ASCII bytes followed by a two-byte rune straddling the cap: the
	// whole rune must go, never half of it.
	input := strings.Repeat("a", 499) + "ñ"
	out := Sanitize(input)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, strings.Repeat("a", 499), out)

	multibyte := strings.Repeat("ñ", 300)
	out = Sanitize(multibyte)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, 500, len(out))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(5, 1, 10))
	assert.Equal(t, 1, Clamp(-2, 1, 10))
	assert.Equal(t, 10, Clamp(99, 1, 10))
}
