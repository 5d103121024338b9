package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPullCmd_Use(t *testing.T) {
	assert.Equal(t, "pull [source-id]", pullCmd.Use)
}

func TestPullCmd_Short(t *testing.T) {
	assert.Equal(t, "Download spreadsheets from sources", pullCmd.Short)
}

func TestPullCmd_Long(t *testing.T) {
	assert.Contains(t, pullCmd.Long, "download directory")
	assert.Contains(t, pullCmd.Long, "source ID")
}

func TestPullCmd_ExecutesWithoutArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"pull"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Pulling all sources...")
	assert.Contains(t, buf.String(), "All sources pulled successfully.")
}

func TestPullCmd_ExecutesWithSourceID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"pull", "source-456"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Pulling source: source-456")
	assert.Contains(t, buf.String(), "Source source-456 pulled successfully.")
}

func TestPullCmd_ReportsFetchedFiles(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"pull", "src-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Fetched 3 files (0 errors)")
}

func TestPullCmd_ServiceNotConfigured(t *testing.T) {
	oldPull := pullOrchestrator
	pullOrchestrator = nil
	defer func() {
		pullOrchestrator = oldPull
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"pull"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pull service not configured")
}

func TestPullCmd_ServiceError_SingleSource(t *testing.T) {
	oldPull := pullOrchestrator
	pullOrchestrator = &mockPullOrchestratorError{}
	defer func() {
		pullOrchestrator = oldPull
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"pull", "src-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pull failed")
}

func TestPullCmd_ServiceError_AllSources(t *testing.T) {
	oldPull := pullOrchestrator
	pullOrchestrator = &mockPullOrchestratorError{}
	defer func() {
		pullOrchestrator = oldPull
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"pull"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pull failed")
}
