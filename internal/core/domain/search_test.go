package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSearchFilter_Fields tests SearchFilter structure fields
func TestSearchFilter_Fields(t *testing.T) {
	cluster := int64(7)
	filter := SearchFilter{
		Query:     "acme",
		Country:   "Germany",
		Product:   "Custody",
		ClusterID: &cluster,
		Status:    StatusSuccess,
		HasField:  "client_name",
		Limit:     25,
		Offset:    50,
	}

	assert.Equal(t, "acme", filter.Query)
	assert.Equal(t, "Germany", filter.Country)
	assert.Equal(t, "Custody", filter.Product)
	assert.Equal(t, int64(7), *filter.ClusterID)
	assert.Equal(t, StatusSuccess, filter.Status)
	assert.Equal(t, "client_name", filter.HasField)
	assert.Equal(t, 25, filter.Limit)
}

// TestSearchResult_Fields tests SearchResult structure fields
func TestSearchResult_Fields(t *testing.T) {
	result := SearchResult{
		ID:           "Germany_Acme_Custody",
		Client:       "Acme",
		Country:      "Germany",
		Product:      "Custody",
		Filename:     "acme_15Jan2024.xlsx",
		Fingerprint:  "d41d8cd98f00b204e9800998ecf8427e",
		Status:       StatusSuccess,
		SectionCount: 4,
	}

	assert.Equal(t, "Germany_Acme_Custody", result.ID)
	assert.Nil(t, result.ClusterID)
	assert.Equal(t, 4, result.SectionCount)
}

// TestIndexStatistics_Maps tests that the count maps aggregate per key
func TestIndexStatistics_Maps(t *testing.T) {
	stats := IndexStatistics{
		TotalDocuments: 10,
		ByStatus: map[ProcessingStatus]int{
			StatusSuccess: 8,
			StatusFailed:  2,
		},
		ByCountry: map[string]int{
			"Germany":   6,
			"Singapore": 4,
		},
		ClusterCount:         3,
		DistinctFingerprints: 3,
	}

	assert.Equal(t, 10, stats.TotalDocuments)
	assert.Equal(t, 8, stats.ByStatus[StatusSuccess])
	assert.Equal(t, 6, stats.ByCountry["Germany"])
	assert.Equal(t, stats.ClusterCount, stats.DistinctFingerprints)
}
