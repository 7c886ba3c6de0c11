package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeozonePayload(t *testing.T) {
	g := &GeozoneEntity{
		Code:        "GZ1",
		Name:        "Nordics",
		Description: "north",
		Zones: []CountryZoneEntity{
			{Country: "SE", City: "Stockholm"},
			{Country: "NO", ZoneID: "03"},
		},
	}

	p := g.Payload()
	assert.False(t, p.Multipart())
	assert.Equal(t, "GZ1", p.Fields.Get("code"))
	assert.Equal(t, "Nordics", p.Fields.Get("name"))
	assert.Equal(t, "SE", p.Fields.Get("zones[new_1][country_code]"))
	assert.Equal(t, "Stockholm", p.Fields.Get("zones[new_1][city]"))
	assert.Equal(t, "NO", p.Fields.Get("zones[new_2][country_code]"))
	assert.Equal(t, "03", p.Fields.Get("zones[new_2][zone_code]"))

	assert.Equal(t, map[string]string{"id": "", "name": "Nordics", "zones": "2"}, g.LookupParams())
}

func TestProductPayload(t *testing.T) {
	p := &ProductEntity{
		Name:     "Duck",
		Price:    decimal.RequireFromString("12.5"),
		SKU:      "RD001",
		Quantity: DefaultProductQuantity,
		Images:   []string{"a.png", "b.png"},
	}

	payload := p.Payload()
	require.True(t, payload.Multipart())
	assert.Equal(t, "12.50", payload.Fields.Get("prices[USD]"))
	assert.Equal(t, "Duck", payload.Fields.Get("name[en]"))
	assert.Equal(t, "50", payload.Fields.Get("quantity"))
	assert.Equal(t, []string{"0"}, payload.Fields["categories[]"])
	assert.Equal(t, []FormFile{
		{Param: "new_images[]", Path: "a.png"},
		{Param: "new_images[]", Path: "b.png"},
	}, payload.Files)

	lp := p.LookupParams()
	assert.Equal(t, "12.50", lp["price"])
	assert.Equal(t, "RD001", lp["sku"])
}

func TestUserPayloadAndLookup(t *testing.T) {
	u := &UserEntity{
		ID:        "7",
		Username:  "jdoe",
		Password:  "secret-pass",
		ValidFrom: time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC),
		ValidTo:   time.Date(2027, 11, 20, 9, 30, 0, 0, time.UTC),
	}

	p := u.Payload()
	assert.Equal(t, "secret-pass", p.Fields.Get("confirmed_password"))
	assert.Equal(t, "2026-01-02T15:04", p.Fields.Get("date_valid_from"))
	assert.Equal(t, "1", p.Fields.Get("status"))

	lp := u.LookupParams()
	assert.Equal(t, "Jan 2 2026 03:04 PM", lp["date_valid_from"])
	assert.Equal(t, "Nov 20 2027 09:30 AM", lp["date_valid_to"])
	assert.Equal(t, "7", lp["id"])

	assert.NotContains(t, u.String(), "secret-pass")
}

func TestUserLookupLeavesUnsetDatesEmpty(t *testing.T) {
	lp := (&UserEntity{Username: "qa-admin"}).LookupParams()
	assert.Equal(t, map[string]string{
		"id":              "",
		"username":        "qa-admin",
		"date_valid_from": "",
		"date_valid_to":   "",
	}, lp)

	p := (&UserEntity{Username: "qa-admin"}).Payload()
	assert.Empty(t, p.Fields.Get("date_valid_from"))
	assert.Empty(t, p.Fields.Get("date_valid_to"))
}

func TestEntityIDLifecycle(t *testing.T) {
	entities := []Entity{NewGeozone("SE"), NewProduct(), NewAdminUser()}
	for _, e := range entities {
		assert.Empty(t, e.EntityID(), e.EntityType())
		e.SetEntityID("42")
		assert.Equal(t, "42", e.EntityID())
		assert.Equal(t, "42", e.LookupParams()["id"])
	}
}

func TestGenerators(t *testing.T) {
	g1, g2 := NewGeozone("SE", "FI"), NewGeozone()
	assert.True(t, strings.HasPrefix(g1.Name, FixturePrefix))
	assert.NotEqual(t, g1.Name, g2.Name)
	assert.Len(t, g1.Zones, 2)
	assert.Equal(t, "FI", g1.Zones[1].Country)

	p := NewProduct("img.png")
	assert.True(t, strings.HasPrefix(p.Name, FixturePrefix))
	assert.Equal(t, DefaultProductQuantity, p.Quantity)
	assert.True(t, p.Price.GreaterThanOrEqual(decimal.NewFromInt(1)))
	assert.Equal(t, int32(-2), p.Price.Exponent())

	u := NewAdminUser()
	assert.True(t, strings.HasPrefix(u.Username, FixturePrefix))
	assert.NotEqual(t, u.Password, NewAdminUser().Password)
	assert.True(t, u.ValidFrom.Before(time.Now()))
	assert.True(t, u.ValidTo.After(time.Now()))
}
