package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	c := Cursor{
		Date:      time.Date(2024, 9, 14, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2024, 6, 1, 10, 0, 0, 123456789, time.UTC),
		ID:        "TRN-DP-PRJ-1",
	}

	got, err := DecodeCursor(c.Encode())
	require.NoError(t, err)
	assert.True(t, c.Date.Equal(got.Date))
	assert.True(t, c.CreatedAt.Equal(got.CreatedAt), "nanoseconds must survive")
	assert.Equal(t, c.ID, got.ID)
}

func TestDecodeCursorErrors(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "not-base64!"},
		{"too few fields", EncodeMultiFieldToken("2024-01-01T00:00:00Z", "x")},
		{"bad date", EncodeMultiFieldToken("yesterday", "2024-01-01T00:00:00Z", "TRN1")},
		{"bad created at", EncodeMultiFieldToken("2024-01-01T00:00:00Z", "later", "TRN1")},
		{"empty id", EncodeMultiFieldToken("2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestEncodeMultiFieldToken(t *testing.T) {
	token := EncodeMultiFieldToken("a", "b", "c")
	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Equal(t, "a|b|c", string(raw))

	fields, err := DecodeMultiFieldToken(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, fields)
}
