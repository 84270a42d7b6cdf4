package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Cursor is the opaque pagination state we encode/decode.
// ByCity maps a city key to the next canonical-order position to scan in
// that city, so a resumed page never re-serves positions. Single-city
// feeds use one entry; the nearby mode carries one per merged city.
type Cursor struct {
	ByCity map[string]int `json:"by_city,omitempty"`
}

// Next returns the first position still to scan for cityKey (0 for a
// fresh cursor).
func (c Cursor) Next(cityKey string) int {
	if c.ByCity == nil {
		return 0
	}
	return c.ByCity[cityKey]
}

// Advance records that positions before next are consumed for cityKey.
func (c *Cursor) Advance(cityKey string, next int) {
	if c.ByCity == nil {
		c.ByCity = make(map[string]int)
	}
	c.ByCity[cityKey] = next
}

// Encode converts a Cursor into a Base64 string.
func Encode(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Decode parses a Base64 string into a Cursor.
// Empty token → empty cursor (first page).
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}
	return c, nil
}
