// Package models defines the LifeMirror domain types and the closed-field
// request inputs that create or modify them.
package models

import "time"

// Meta is the store-managed part of every record. OwnerID never leaves the server.
type Meta struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Base exposes the metadata to the generic store.
func (m *Meta) Base() *Meta { return m }

// Record is implemented by every persisted entity through its embedded Meta.
type Record interface {
	Base() *Meta
}

// Date and time-of-day layouts accepted on the wire.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
