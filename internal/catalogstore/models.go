// Package catalogstore is a GORM-backed persistent cache for the runtime
// -type provider's catalog (spec.md §6: "a caching wrapper must be
// composable around any provider"). It caches only the read-only
// built-in/engine type catalog — never per-run analysis results, which
// spec.md §1 explicitly keeps out of scope ("persistent caches").
//
// Grounded on the teacher's db/sqlite.go (Connect/Migrate shape) and
// models/models.go (datatypes.JSON columns on a GORM model), scaled down
// from the teacher's stage/apply/session schema to a much smaller
// read-mostly catalog table.
package catalogstore

import (
	"time"

	"gorm.io/datatypes"
)

// TypeRow caches one provider.TypeInfo plus its resolved member list, so a
// repeat analysis run against the same engine version skips re-deriving
// the whole catalog from whatever source built it (e.g. a parsed engine
// API dump).
type TypeRow struct {
	Name      string         `gorm:"primaryKey;type:varchar(128)"`
	Base      string         `gorm:"type:varchar(128)"`
	IsEngine  bool           `gorm:"not null;default:false"`
	Members   datatypes.JSON `gorm:"type:jsonb"` // []memberRecord, see codec.go
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (TypeRow) TableName() string { return "catalog_types" }

// ContainerProfileRow caches a built-in container/packed-array's known
// element (and, for Dictionary-shaped types, key) type — the "container
// usage profile" concept of spec.md §3, applied to provider-known types
// rather than user-script locals (those are reconstructed fresh per
// analysis by internal/infer and never persisted).
type ContainerProfileRow struct {
	Name        string    `gorm:"primaryKey;type:varchar(128)"`
	ElementType string    `gorm:"type:varchar(128)"`
	KeyType     string    `gorm:"type:varchar(128)"` // "" for non-dictionary containers
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (ContainerProfileRow) TableName() string { return "catalog_container_profiles" }

// OperatorRow caches one resolved `left op right -> result` overload.
type OperatorRow struct {
	Left       string `gorm:"primaryKey;type:varchar(64)"`
	Op         string `gorm:"primaryKey;type:varchar(8)"`
	Right      string `gorm:"primaryKey;type:varchar(64)"`
	ResultType string `gorm:"type:varchar(128)"`
}

func (OperatorRow) TableName() string { return "catalog_operators" }

// memberRecord is the JSON shape stored in TypeRow.Members — a flattened,
// serialization-friendly projection of provider.MemberInfo.
type memberRecord struct {
	Name       string            `json:"name"`
	Kind       int               `json:"kind"`
	Type       string            `json:"type"`
	Static     bool              `json:"static"`
	Parameters []paramRecord     `json:"parameters,omitempty"`
}

type paramRecord struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	HasDefault bool   `json:"has_default"`
}
