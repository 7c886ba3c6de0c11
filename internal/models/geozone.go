package models

import (
	"fmt"
	"net/url"
	"strconv"
)

// CountryZoneEntity is a zone row of a geozone: a country, an optional
// zone inside it and a city. It has no lifecycle of its own.
type CountryZoneEntity struct {
	ZoneID  string `json:"zone_id,omitempty"`
	Country string `json:"country"`
	City    string `json:"city,omitempty"`
}

func (z CountryZoneEntity) String() string {
	return fmt.Sprintf("CountryZone(country=%s, zone=%s, city=%q)", z.Country, z.ZoneID, z.City)
}

// GeozoneEntity is an entry of Admin / Geo Zones.
type GeozoneEntity struct {
	ID          string              `json:"id,omitempty" db:"id"`
	Code        string              `json:"code" db:"code"`
	Name        string              `json:"name" db:"name"`
	Description string              `json:"description" db:"description"`
	Zones       []CountryZoneEntity `json:"zones,omitempty"`
}

func (g *GeozoneEntity) EntityID() string       { return g.ID }
func (g *GeozoneEntity) SetEntityID(id string)  { g.ID = id }
func (g *GeozoneEntity) EntityType() EntityType { return EntityTypeGeozone }

func (g *GeozoneEntity) Payload() Payload {
	fields := url.Values{}
	fields.Set("code", g.Code)
	fields.Set("name", g.Name)
	fields.Set("description", g.Description)
	for i, z := range g.Zones {
		prefix := fmt.Sprintf("zones[new_%d]", i+1)
		fields.Set(prefix+"[id]", "")
		fields.Set(prefix+"[country_code]", z.Country)
		fields.Set(prefix+"[zone_code]", z.ZoneID)
		fields.Set(prefix+"[city]", z.City)
	}
	return Payload{Fields: fields}
}

// LookupParams returns id, name and the number of zones shown in the
// Geo Zones table.
func (g *GeozoneEntity) LookupParams() map[string]string {
	return map[string]string{
		"id":    g.ID,
		"name":  g.Name,
		"zones": strconv.Itoa(len(g.Zones)),
	}
}

func (g *GeozoneEntity) String() string {
	return fmt.Sprintf("GeozoneEntity(id=%s, code=%s, name=%q, zones=%v)", g.ID, g.Code, g.Name, g.Zones)
}
