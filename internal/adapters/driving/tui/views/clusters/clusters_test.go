package clusters

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/messages"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/styles"
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// mockClusterService returns a fixed cluster list.
type mockClusterService struct {
	clusters []domain.PatternCluster
	err      error
}

func (m *mockClusterService) Recluster(_ context.Context) ([]domain.PatternCluster, error) {
	return m.clusters, m.err
}

func (m *mockClusterService) List(_ context.Context) ([]domain.PatternCluster, error) {
	return m.clusters, m.err
}

func (m *mockClusterService) Get(_ context.Context, _ int64) (*domain.PatternCluster, error) {
	return nil, m.err
}

func sampleClusters() []domain.PatternCluster {
	return []domain.PatternCluster{
		{
			ID:            1,
			Name:          "Cluster 1",
			Fingerprint:   "abc123def456789",
			DocumentCount: 12,
			Summary: domain.ClusterSummary{
				SheetNames:   []string{"Summary", "Detail"},
				SectionTypes: map[domain.SectionType]int{domain.SectionKeyValue: 12, domain.SectionTable: 24},
				CommonFields: []string{"client_name", "policy_number"},
			},
			ExampleIDs: []string{"uk_acme_pension"},
		},
		{
			ID:            2,
			Name:          "Cluster 2",
			Fingerprint:   "fedcba987654321",
			DocumentCount: 3,
		},
	}
}

func TestInit_LoadsClusters(t *testing.T) {
	svc := &mockClusterService{clusters: sampleClusters()}
	view := NewView(styles.DefaultStyles(), svc)

	cmd := view.Init()
	require.NotNil(t, cmd)
	assert.True(t, view.Loading())

	msg := cmd()
	loaded, ok := msg.(messages.ClustersLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)

	view, _ = view.Update(loaded)
	assert.False(t, view.Loading())
	assert.Len(t, view.Clusters(), 2)
}

func TestInit_NilService(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)

	msg := view.Init()()
	loaded, ok := msg.(messages.ClustersLoaded)
	require.True(t, ok)
	require.Error(t, loaded.Err)

	view, _ = view.Update(loaded)
	assert.Error(t, view.Err())
}

func TestInit_LoadFailure(t *testing.T) {
	svc := &mockClusterService{err: errors.New("database error")}
	view := NewView(styles.DefaultStyles(), svc)

	msg := view.Init()()
	view, _ = view.Update(msg)

	assert.Error(t, view.Err())
	assert.Contains(t, view.View(), "database error")
}

func TestNavigation(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &mockClusterService{})
	view, _ = view.Update(messages.ClustersLoaded{Clusters: sampleClusters()})

	assert.Equal(t, 0, view.Selected())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, view.Selected())

	// Cannot move past the end
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, view.Selected())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 0, view.Selected())

	require.NotNil(t, view.SelectedCluster())
	assert.Equal(t, "Cluster 1", view.SelectedCluster().Name)
}

func TestReload(t *testing.T) {
	svc := &mockClusterService{clusters: sampleClusters()}
	view := NewView(styles.DefaultStyles(), svc)
	view, _ = view.Update(messages.ClustersLoaded{Clusters: sampleClusters()})

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.True(t, view.Loading())
	require.NotNil(t, cmd)
}

func TestEscReturnsToMenu(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &mockClusterService{})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	msg := cmd()
	changed, ok := msg.(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, changed.View)
}

func TestView_RendersSummary(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &mockClusterService{})
	view.SetDimensions(100, 40)
	view, _ = view.Update(messages.ClustersLoaded{Clusters: sampleClusters()})

	out := view.View()
	assert.Contains(t, out, "Cluster 1")
	assert.Contains(t, out, "12 docs")
	assert.Contains(t, out, "abc123def456")
	assert.Contains(t, out, "Summary, Detail")
	assert.Contains(t, out, "client_name, policy_number")
	assert.Contains(t, out, "uk_acme_pension")
}

func TestView_Empty(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &mockClusterService{})
	view, _ = view.Update(messages.ClustersLoaded{})

	assert.Contains(t, view.View(), "No clusters yet")
}
