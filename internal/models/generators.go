package models

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FixturePrefix marks every generated entity so leaked fixtures can be
// found and swept.
const FixturePrefix = "e2e-"

func suffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	return s[:n]
}

// RandomPassword returns a password accepted by the back-office policy.
func RandomPassword() string {
	return "Pw" + suffix(12) + "!9"
}

// NewGeozone returns a geozone with one zone per country code.
func NewGeozone(countries ...string) *GeozoneEntity {
	s := suffix(8)
	g := &GeozoneEntity{
		Code:        "E2E" + strings.ToUpper(s[:5]),
		Name:        FixturePrefix + "geozone-" + s,
		Description: "Geo zone generated by the e2e suite",
	}
	for _, c := range countries {
		g.Zones = append(g.Zones, CountryZoneEntity{
			Country: c,
			City:    "Town " + strings.ToUpper(c),
		})
	}
	return g
}

// NewProduct returns a product with a random price and the given image
// files attached.
func NewProduct(images ...string) *ProductEntity {
	s := suffix(8)
	cents := rand.Int64N(99_900) + 100
	return &ProductEntity{
		Name:      FixturePrefix + "product-" + s,
		Price:     decimal.New(cents, -2),
		SKU:       "E2E-" + strings.ToUpper(s[:6]),
		ShortDesc: "Short description of " + s,
		FullDesc:  fmt.Sprintf("Full description of product %s generated by the e2e suite.", s),
		Quantity:  DefaultProductQuantity,
		Images:    images,
	}
}

// NewAdminUser returns an admin account valid from yesterday for two
// years.
func NewAdminUser() *UserEntity {
	s := suffix(8)
	from := time.Now().Add(-24 * time.Hour).Truncate(time.Hour)
	return &UserEntity{
		Username:  FixturePrefix + "user-" + s,
		Password:  RandomPassword(),
		ValidFrom: from,
		ValidTo:   from.AddDate(2, 0, 0),
		Email:     FixturePrefix + s + "@example.com",
	}
}
