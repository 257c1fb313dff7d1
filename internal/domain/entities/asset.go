package entities

import (
	"time"
)

// StoredObject describes an object in the image bucket.
type StoredObject struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	URL          string    `json:"url"`
}

// AssetReference records that an uploaded object belongs to an entity role.
// Rows are written on upload so orphaned or missing keys can be found from
// the relational side.
type AssetReference struct {
	ID         string    `json:"id" db:"id"`
	EntityType string    `json:"entity_type" db:"entity_type"`
	EntityID   string    `json:"entity_id" db:"entity_id"`
	Role       string    `json:"role" db:"role"`
	StorageKey string    `json:"storage_key" db:"storage_key"`
	Checksum   string    `json:"checksum" db:"checksum"`
	Size       int64     `json:"size" db:"size"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// UploadResult is returned by the upload endpoint.
type UploadResult struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Size int64  `json:"size"`
}
