package db

import (
	"strings"
	"time"
)

// Profile kinds.
const (
	KindReal      = "real"
	KindSynthetic = "synthetic"
)

// Genders.
const (
	GenderMale        = "male"
	GenderFemale      = "female"
	GenderUnspecified = "unspecified"
)

// Payment preferences.
const (
	PaySelf      = "self_pays"
	PayRequester = "requester_pays"
	PayOther     = "other_pays"
)

// FilterAny is the neutral value for both preference filters.
const FilterAny = "any"

// DateKey formats t as the canonical rotation-date key (UTC calendar day).
// All date-scoped rows (active_date, order entries, views) use this format
// so day boundaries are exact across MySQL and the SQLite test driver.
func DateKey(t time.Time) string { return t.UTC().Format(time.DateOnly) }

// User is a login identity for a real person. Synthetic profiles have no
// user row; authentication itself is handled elsewhere.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"default:true"`
	LastLoginAt  time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Profile is a person or synthetic persona shown in feeds.
//
// Synthetic profiles use negative IDs so they can never collide with real
// user IDs. ActiveDate is the only field the rotation job mutates: a
// synthetic profile is a feed candidate only when ActiveDate equals today's
// date key; a real profile ignores ActiveDate entirely.
type Profile struct {
	ID                int64     `gorm:"primaryKey"`
	Kind              string    `gorm:"size:16;not null;index:idx_city_kind_gender,priority:2"`
	DisplayName       string    `gorm:"size:128;not null"`
	Age               int       `gorm:"not null"`
	Gender            string    `gorm:"size:16;not null;index:idx_city_kind_gender,priority:3"`
	CityKey           string    `gorm:"size:64;not null;index:idx_city_kind_gender,priority:1"`
	PaymentPreference string    `gorm:"size:32;not null"`
	PhotoRef          string    `gorm:"size:255"`
	ActiveDate        string    `gorm:"size:10;index"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// HasMedia reports whether a display photo reference is set.
func (p *Profile) HasMedia() bool { return p.PhotoRef != "" }

// CityQuota is static per-city rotation configuration: the tier bucket,
// how many synthetic profiles per gender stay active each day, the display
// text for rendered cards, and the static nearby-city adjacency list.
// Loaded read-only; never mutated by the application.
type CityQuota struct {
	CityKey        string `gorm:"primaryKey;size:64"`
	Tier           int    `gorm:"not null"`
	QuotaPerGender int    `gorm:"not null"`
	DisplayName    string `gorm:"size:128;not null"`
	AdjacentKeys   string `gorm:"size:255"`
}

// Adjacent returns the configured nearby city keys, if any.
func (c *CityQuota) Adjacent() []string {
	if strings.TrimSpace(c.AdjacentKeys) == "" {
		return nil
	}
	parts := strings.Split(c.AdjacentKeys, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// DailyOrderEntry is one slot of the canonical per-city ranking for a date.
//
// For a fixed (city_key, date) the position values are a contiguous 0..N-1
// permutation of the active profile set: no duplicate positions, no
// duplicate profiles. Rows are bulk-replaced by the order builder once per
// (city_key, date) and are read-only for the rest of that day.
type DailyOrderEntry struct {
	CityKey   string `gorm:"primaryKey;size:64;index:idx_city_date_position,priority:1"`
	Date      string `gorm:"primaryKey;size:10;index:idx_city_date_position,priority:2"`
	ProfileID int64  `gorm:"primaryKey"`
	Position  int    `gorm:"not null;index:idx_city_date_position,priority:3"`
}

// Like records that a user liked a profile. Append-only, unique per pair,
// never overwritten.
type Like struct {
	FromUserID  int64     `gorm:"primaryKey"`
	ToProfileID int64     `gorm:"primaryKey"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// ProfileView marks a profile as already shown to a user on a given day.
// Expires naturally by date rollover since queries always scope by the
// current date key; no cleanup job needed.
type ProfileView struct {
	UserID    int64     `gorm:"primaryKey"`
	ProfileID int64     `gorm:"primaryKey"`
	ViewDate  string    `gorm:"primaryKey;size:10"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// UserPreference is a user's declared feed filters. Absent row means
// any/any.
type UserPreference struct {
	UserID        int64     `gorm:"primaryKey"`
	GenderFilter  string    `gorm:"size:16;not null;default:any"`
	PaymentFilter string    `gorm:"size:32;not null;default:any"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}
