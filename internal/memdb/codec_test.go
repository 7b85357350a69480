package memdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncodeTimeOrdersLexicographically checks that encoded timestamps sort
// as strings the same way the times sort, including across fractional widths
// where a trimmed-zero encoding would misorder ("..00.5Z" vs "..00.55Z").
func TestEncodeTimeOrdersLexicographically(t *testing.T) {
	base := time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(500 * time.Millisecond),
		base.Add(550 * time.Millisecond),
		base.Add(555 * time.Millisecond),
		base.Add(time.Second),
		base.Add(time.Second + time.Nanosecond),
	}

	for i := 1; i < len(times); i++ {
		prev, next := encodeTime(times[i-1]), encodeTime(times[i])
		assert.Less(t, prev, next, "%v must encode before %v", times[i-1], times[i])
	}
}

// TestEncodeTimeFixedWidth checks that every encoding has the same length and
// normalizes to UTC.
func TestEncodeTimeFixedWidth(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	values := []time.Time{
		time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC),
		time.Date(2026, 8, 23, 10, 30, 0, 500000000, time.UTC),
		time.Date(2026, 8, 23, 5, 30, 0, 123456789, est),
	}

	width := len(encodeTime(values[0]))
	for _, v := range values {
		encoded := encodeTime(v)
		assert.Len(t, encoded, width)
		assert.Equal(t, byte('Z'), encoded[len(encoded)-1])
	}
}

// TestTimeRoundTrip checks decode(encode(t)) preserves the instant.
func TestTimeRoundTrip(t *testing.T) {
	original := time.Date(2026, 8, 23, 10, 30, 0, 550000000, time.UTC)

	decoded, err := decodeTime(encodeTime(original))
	require.NoError(t, err)
	assert.True(t, decoded.Equal(original))

	// Rows written before the fixed-width layout still parse.
	legacy, err := decodeTime("2026-08-23T10:30:00.5Z")
	require.NoError(t, err)
	assert.True(t, legacy.Equal(original.Add(-50*time.Millisecond)))
}
