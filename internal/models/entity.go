package models

import (
	"net/url"
)

// EntityType identifies a kind of back-office entity. It selects the
// admin endpoints used to create and delete it.
type EntityType string

const (
	EntityTypeUser    EntityType = "user"
	EntityTypeGeozone EntityType = "geozone"
	EntityTypeProduct EntityType = "product"
)

// Entity is a back-office object that can be created and deleted
// through the admin endpoints and located in a UI table.
type Entity interface {
	// EntityID returns the back-office ID, or "" until the entity was
	// created through the API or found in a table.
	EntityID() string
	SetEntityID(id string)
	EntityType() EntityType
	// Payload renders the entity as the admin form submission.
	Payload() Payload
	// LookupParams maps table field names to the values the UI is
	// expected to display for this entity.
	LookupParams() map[string]string
}

// FormFile is a file attached to a multipart form submission.
type FormFile struct {
	Param string
	Path  string
}

// Payload is a form submission: plain fields plus optional files.
type Payload struct {
	Fields url.Values
	Files  []FormFile
}

// Multipart reports whether the payload has to be sent as
// multipart/form-data.
func (p Payload) Multipart() bool {
	return len(p.Files) > 0
}

