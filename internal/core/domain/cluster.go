package domain

import "time"

// PatternCluster groups stored documents sharing one structural
// fingerprint. Two documents land in the same cluster exactly when
// their sheets, section shapes, and leading field names match.
type PatternCluster struct {
	// ID is the cluster's index identifier.
	ID int64 `json:"cluster_id"`

	// Name is the generated display name ("Cluster 3").
	Name string `json:"cluster_name"`

	// Fingerprint is the shared structural signature.
	Fingerprint string `json:"pattern_signature"`

	// DocumentCount is how many documents carry this fingerprint.
	DocumentCount int `json:"document_count"`

	// Summary describes the shared structure.
	Summary ClusterSummary `json:"structure_summary"`

	// ExampleIDs lists up to a handful of member document IDs.
	ExampleIDs []string `json:"example_document_ids"`

	// CreatedAt is when the cluster was first formed.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when membership last changed.
	UpdatedAt time.Time `json:"updated_at"`
}

// ClusterSummary describes the structure shared by a cluster's members.
type ClusterSummary struct {
	// SheetNames are the most common sheet names, most frequent first.
	SheetNames []string `json:"common_sheet_names"`

	// SectionTypes counts sections by type across members.
	SectionTypes map[SectionType]int `json:"section_type_distribution"`

	// CommonFields are the most frequent field names, most frequent first.
	CommonFields []string `json:"common_fields"`
}

// FieldStats aggregates one field name's usage across stored documents.
// The schema discovery service builds these to propose canonical names.
type FieldStats struct {
	// Name is the normalised field name as extracted.
	Name string `json:"field_name"`

	// Occurrences is how many documents contain the field.
	Occurrences int `json:"occurrences"`

	// Frequency is Occurrences over the total document count, in [0,1].
	Frequency float64 `json:"frequency"`

	// SectionTypes lists the section shapes the field appears in.
	SectionTypes []SectionType `json:"section_types"`

	// Samples holds up to a few example values seen for the field.
	Samples []any `json:"sample_values,omitempty"`

	// Canonical is the suggested canonical name for the field.
	Canonical string `json:"canonical_suggestion,omitempty"`
}

// FieldMapping maps a source field to its canonical name for one cluster.
type FieldMapping struct {
	// ClusterID scopes the mapping to one pattern cluster.
	ClusterID int64 `json:"cluster_id"`

	// SourceField is the field name as extracted.
	SourceField string `json:"source_field"`

	// CanonicalField is the target name.
	CanonicalField string `json:"canonical_field"`
}
