package domain

// SearchFilter configures a stored-document query.
type SearchFilter struct {
	// Query matches against document ID, client name, and filename.
	Query string

	// Country filters to one country folder.
	Country string

	// Product filters to one product folder.
	Product string

	// ClusterID filters to one pattern cluster.
	ClusterID *int64

	// Status filters by processing status ("success", "failed").
	Status ProcessingStatus

	// HasField keeps only documents containing the named field.
	HasField string

	// Limit is the maximum number of results, 0 for the store default.
	Limit int

	// Offset is the number of results to skip.
	Offset int
}

// SearchResult is a single stored-document hit.
type SearchResult struct {
	// ID is the document identifier.
	ID string

	// Client is the client name from the file's folder position.
	Client string

	// Country is the country folder.
	Country string

	// Product is the product folder.
	Product string

	// Filename is the source file's base name.
	Filename string

	// Fingerprint is the structural signature.
	Fingerprint string

	// ClusterID is the assigned pattern cluster, nil when unclustered.
	ClusterID *int64

	// Status is the document's processing status.
	Status ProcessingStatus

	// SectionCount is the total number of extracted sections.
	SectionCount int
}

// IndexStatistics summarises the stored document index.
type IndexStatistics struct {
	// TotalDocuments is the number of stored documents.
	TotalDocuments int

	// ByStatus counts documents per processing status.
	ByStatus map[ProcessingStatus]int

	// ByCountry counts documents per country.
	ByCountry map[string]int

	// ClusterCount is the number of pattern clusters.
	ClusterCount int

	// DistinctFingerprints is the number of unique signatures.
	DistinctFingerprints int
}
