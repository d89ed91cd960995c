package export

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the category of records an export type pulls from the
// commerce data source.
type Kind string

const (
	KindOrders    Kind = "orders"
	KindCustomers Kind = "customers"
	KindProducts  Kind = "products"
	KindCoupons   Kind = "coupons"
	KindCustom    Kind = "custom"
)

// IsValid checks if the kind is a known export kind
func (k Kind) IsValid() bool {
	switch k {
	case KindOrders, KindCustomers, KindProducts, KindCoupons, KindCustom:
		return true
	}
	return false
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// AllKinds returns every export kind that has a built-in extractor
func AllKinds() []Kind {
	return []Kind{KindOrders, KindCustomers, KindProducts, KindCoupons}
}

// Frequency is the cadence at which a scheduled export type runs
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// IsValid checks if the frequency is supported
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// TypeConfig describes one named, independently schedulable export: what to
// extract, how to shape the CSV, and where the artifact lands locally and in
// object storage. It is created through configuration and read-only to the
// pipeline.
type TypeConfig struct {
	ID        uuid.UUID
	Name      string
	Kind      Kind
	Enabled   bool
	Frequency Frequency
	TimeOfDay string // HH:MM in the reference timezone

	// Destination
	RemoteDirectory string // directory component of the object key
	LocalFolder     string // subdirectory under the export root for staging
	FilePrefix      string

	Mappings []FieldMapping

	// Statuses restricts extraction to the listed record statuses.
	// Empty means the kind's full known status set.
	Statuses []string

	// IncludeOrigin appends the synthesized "source of origin" column.
	IncludeOrigin bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the config for structural problems. Duplicate data-source
// keys are rejected here rather than resolved last-wins at write time.
func (c *TypeConfig) Validate() error {
	if c.Name == "" {
		return NewDomainError("INVALID_EXPORT_TYPE", "Export type name cannot be empty")
	}
	if !c.Kind.IsValid() {
		return NewDomainError("INVALID_EXPORT_KIND", fmt.Sprintf("Unknown export kind %q", c.Kind))
	}
	if c.FilePrefix == "" {
		return NewDomainError("INVALID_FILE_PREFIX", "Export type file prefix cannot be empty")
	}
	if c.Frequency != "" && !c.Frequency.IsValid() {
		return NewDomainError("INVALID_FREQUENCY", fmt.Sprintf("Unknown frequency %q", c.Frequency))
	}
	seen := make(map[string]bool, len(c.Mappings))
	for _, m := range c.Mappings {
		if m.DataSource == "" {
			return NewDomainError("INVALID_MAPPING", "Field mapping data source key cannot be empty")
		}
		if seen[m.DataSource] {
			return ErrDuplicateMappingKey
		}
		seen[m.DataSource] = true
	}
	return nil
}

// EnabledMappings returns the mappings that participate in CSV output, in
// configured order, with the origin column synthesized when the type asks for
// it. A mapping advertising the origin column under a foreign data-source key
// is dropped and replaced by the canonical one, which always sits last.
func (c *TypeConfig) EnabledMappings() []FieldMapping {
	out := make([]FieldMapping, 0, len(c.Mappings)+1)
	hasCanonical := false
	for _, m := range c.Mappings {
		if !m.Enabled {
			continue
		}
		if c.IncludeOrigin && m.ColumnName == OriginColumnName && m.DataSource != OriginDataSource {
			continue
		}
		if m.DataSource == OriginDataSource {
			hasCanonical = true
		}
		out = append(out, m)
	}
	if c.IncludeOrigin && !hasCanonical {
		out = append(out, FieldMapping{
			Enabled:    true,
			DataSource: OriginDataSource,
			ColumnName: OriginColumnName,
		})
	}
	return out
}

// FileName derives the deterministic staging filename for a target date.
// Same type and date always map to the same name, which is what makes
// re-running overwrite in place.
func (c *TypeConfig) FileName(date time.Time) string {
	return fmt.Sprintf("%s-%02d-%02d-%d.csv", c.FilePrefix, date.Day(), int(date.Month()), date.Year())
}
