package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "22997000000", DigitsOnly("+229 97-00 00.00"))
	assert.Equal(t, "", DigitsOnly("abc"))
}

func TestNormalizePhone(t *testing.T) {
	codes := []string{"229", "228", "225", "226", "221", "242"}
	national := "97000000"

	for _, code := range codes {
		for repeat := 0; repeat <= 2; repeat++ {
			raw := strings.Repeat(code, repeat) + national
			assert.Equal(t, code+national, NormalizePhone(code, raw), "code %s repeated %d times", code, repeat)
		}
	}

	t.Run("Formatting characters", func(t *testing.T) {
		assert.Equal(t, "22997000000", NormalizePhone("229", "+229 97 00 00 00"))
		assert.Equal(t, "22997000000", NormalizePhone("+229", "(229) 229-97000000"))
	})

	t.Run("No dial code", func(t *testing.T) {
		assert.Equal(t, "97000000", NormalizePhone("", "97 00 00 00"))
	})
}

func TestLocalPhone(t *testing.T) {
	assert.Equal(t, "0700000000", LocalPhone("700000000"))
	assert.Equal(t, "0700000000", LocalPhone("0700000000"))
}
