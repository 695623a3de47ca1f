// Package pagination encodes the opaque cursors handed out by list endpoints.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// Cursor marks the last row of a page ordered by date, then creation time, then id.
type Cursor struct {
	Date      time.Time
	CreatedAt time.Time
	ID        string
}

// Encode returns the base64 token for c.
func (c Cursor) Encode() string {
	return EncodeMultiFieldToken(c.Date.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.ID)
}

// DecodeCursor parses a token produced by Cursor.Encode.
func DecodeCursor(token string) (Cursor, error) {
	fields, err := DecodeMultiFieldToken(token)
	if err != nil {
		return Cursor{}, err
	}
	if len(fields) != 3 {
		return Cursor{}, fmt.Errorf("invalid pagination token format (field count)")
	}
	date, err := time.Parse(timeFormat, fields[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, fields[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	if fields[2] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (empty id)")
	}
	return Cursor{Date: date, CreatedAt: createdAt, ID: fields[2]}, nil
}

// EncodeMultiFieldToken joins fields with '|' and base64 encodes the result.
func EncodeMultiFieldToken(fields ...string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(fields, "|")))
}

// DecodeMultiFieldToken decodes a token into its component fields.
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}
