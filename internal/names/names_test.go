package names

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, name := range []string{"", "x", "stress", strings.Repeat("a", 33)} {
		slot, err := Encode(name, 33)
		require.NoError(t, err, "name %q", name)
		assert.Len(t, slot, 33)
		assert.Equal(t, name, Decode(slot))
	}
}

func TestEncodeTooLong(t *testing.T) {
	_, err := Encode(strings.Repeat("a", 34), 33)
	assert.Error(t, err)
}

func TestDecodeStripsTrailingPaddingOnly(t *testing.T) {
	slot := []byte{'a', 0, 'b', 0, 0}
	// Interior zero bytes are preserved; only trailing padding is stripped.
	assert.Equal(t, "a\x00b", Decode(slot))
}

func TestDecodeAll(t *testing.T) {
	buf := make([]byte, 3*4)
	copy(buf[0:], "ab")
	copy(buf[4:], "cdef")
	assert.Equal(t, []string{"ab", "cdef", ""}, DecodeAll(buf, 4))
	assert.Nil(t, DecodeAll(buf, 0))
}
