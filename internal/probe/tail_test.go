package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTailBuffer(t *testing.T) {
	tb := newTailBuffer(8)

	n, err := tb.Write([]byte("abc"))
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "abc", tb.String())

	tb.Write([]byte("defgh"))
	assert.Equal(t, "abcdefgh", tb.String())

	tb.Write([]byte("ij"))
	assert.Equal(t, "cdefghij", tb.String())

	n, _ = tb.Write([]byte("0123456789"))
	assert.Equal(t, 10, n)
	assert.Equal(t, "23456789", tb.String())
}
