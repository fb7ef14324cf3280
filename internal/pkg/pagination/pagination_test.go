package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-3))
	assert.Equal(t, 1, ClampLimit(1))
	assert.Equal(t, 75, ClampLimit(75))
	assert.Equal(t, MaxLimit, ClampLimit(100))
	assert.Equal(t, MaxLimit, ClampLimit(5000))
}

func TestCursorRoundTrip(t *testing.T) {
	c := Cursor{
		CreatedAt: time.Date(2025, 6, 15, 10, 30, 0, 123456789, time.UTC),
		ID:        uuid.New(),
	}

	decoded, err := Decode(c.Encode())
	assert.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, c.ID, decoded.ID)
}

func TestCursorRoundTripNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	c := Cursor{
		CreatedAt: time.Date(2025, 6, 15, 17, 30, 0, 0, loc),
		ID:        uuid.New(),
	}

	decoded, err := Decode(c.Encode())
	assert.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt))
}

func TestDecodeRejectsMalformedTokens(t *testing.T) {
	cases := []string{
		"not-base64!!!",
		"",
		// base64 of "hello" - no separator
		"aGVsbG8",
		// base64 of "2025-01-01T00:00:00Z|not-a-uuid"
		"MjAyNS0wMS0wMVQwMDowMDowMFp8bm90LWEtdXVpZA",
		// base64 of "yesterday|6ba7b810-9dad-11d1-80b4-00c04fd430c8"
		"eWVzdGVyZGF5fDZiYTdiODEwLTlkYWQtMTFkMS04MGI0LTAwYzA0ZmQ0MzBjOA",
	}

	for _, tok := range cases {
		_, err := Decode(tok)
		assert.Error(t, err, "token %q should not decode", tok)
	}
}
