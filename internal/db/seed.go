package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCities = []CityQuota{
	{CityKey: "riga", Tier: 1, QuotaPerGender: 10, DisplayName: "Riga", AdjacentKeys: "jurmala,jelgava"},
	{CityKey: "jurmala", Tier: 2, QuotaPerGender: 5, DisplayName: "Jūrmala", AdjacentKeys: "riga"},
	{CityKey: "jelgava", Tier: 3, QuotaPerGender: 2, DisplayName: "Jelgava", AdjacentKeys: "riga"},
}

var seedNames = map[string][]string{
	GenderMale:   {"Artur", "Janis", "Marko", "Deniss", "Rihards", "Olegs", "Tomass", "Viktors"},
	GenderFemale: {"Alina", "Kristine", "Dana", "Elza", "Marta", "Olga", "Sofija", "Viktorija"},
}

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears all tables.
//  2. Creates the demo city configuration (3 cities across 3 tiers).
//  3. Creates 20 real users (10 male, 10 female) with hashed passwords and
//     matching real profiles spread across cities.
//  4. Creates synthetic profiles per city (negative IDs), enough to
//     oversubscribe the top tier and undersubscribe the bottom one so a
//     rotation run exercises both full and partial quota fill.
//
// Rotation itself is not run here; trigger it via the rotation endpoint or
// wait for the scheduled job.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, table := range []string{
		"profile_views", "likes", "user_preferences", "daily_order_entries",
		"profiles", "users", "city_quotas",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	if err := db.Create(&seedCities).Error; err != nil {
		return fmt.Errorf("failed to seed cities: %w", err)
	}

	payments := []string{PaySelf, PayRequester, PayOther}

	// Real users + profiles.
	for i := 1; i <= 20; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		gender := GenderMale
		if i > 10 {
			gender = GenderFemale
		}

		user := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Active:       true,
			LastLoginAt:  time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		city := seedCities[i%len(seedCities)]
		names := seedNames[gender]
		profile := Profile{
			ID:                user.ID,
			Kind:              KindReal,
			DisplayName:       fmt.Sprintf("%s R.", names[i%len(names)]),
			Age:               20 + r.Intn(20),
			Gender:            gender,
			CityKey:           city.CityKey,
			PaymentPreference: payments[r.Intn(len(payments))],
			PhotoRef:          fmt.Sprintf("photos/real/%d.jpg", i),
		}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed real profile: %w", err)
		}
	}
	log.Println("Seeded 20 users with profiles.")

	// Synthetic profiles: negative IDs, disjoint from user IDs. Counts per
	// city/gender chosen relative to the quota: riga gets more than quota,
	// jelgava fewer.
	counts := map[string]int{"riga": 15, "jurmala": 5, "jelgava": 1}
	nextID := int64(-1)
	total := 0
	for _, city := range seedCities {
		n := counts[city.CityKey]
		if n == 0 {
			n = city.QuotaPerGender
		}
		for _, gender := range []string{GenderMale, GenderFemale} {
			names := seedNames[gender]
			for i := 0; i < n; i++ {
				profile := Profile{
					ID:                nextID,
					Kind:              KindSynthetic,
					DisplayName:       names[r.Intn(len(names))],
					Age:               19 + r.Intn(16),
					Gender:            gender,
					CityKey:           city.CityKey,
					PaymentPreference: payments[r.Intn(len(payments))],
					PhotoRef:          fmt.Sprintf("photos/%s/%d.jpg", gender, total+1),
				}
				if err := db.Create(&profile).Error; err != nil {
					return fmt.Errorf("failed to seed synthetic profile: %w", err)
				}
				nextID--
				total++
			}
		}
	}
	log.Printf("Seeded %d synthetic profiles.", total)

	return nil
}
