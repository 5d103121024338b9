package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaCmd_Use(t *testing.T) {
	assert.Equal(t, "schema", schemaCmd.Use)
}

func TestSchemaCmd_Short(t *testing.T) {
	assert.Equal(t, "Discover fields and manage canonical mappings", schemaCmd.Short)
}

func TestSchemaCmd_HasSubcommands(t *testing.T) {
	commands := schemaCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "fields")
	assert.Contains(t, commandNames, "map")
	assert.Contains(t, commandNames, "mappings")
	assert.Contains(t, commandNames, "apply")
}

// Schema Fields Tests

func TestSchemaFieldsCmd_Use(t *testing.T) {
	assert.Equal(t, "fields", schemaFieldsCmd.Use)
}

func TestSchemaFieldsCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"schema", "fields"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Fields: 2")
	assert.Contains(t, buf.String(), "client_name")
	assert.Contains(t, buf.String(), "12 docs")
	assert.Contains(t, buf.String(), "100.0%")
	assert.Contains(t, buf.String(), "[key_value]")
	assert.Contains(t, buf.String(), "ccy")
	assert.Contains(t, buf.String(), "-> currency")
}

func TestSchemaFieldsCmd_SamplesFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"schema", "fields", "--samples"})
	defer func() {
		rootCmd.SetArgs(nil)
		schemaFieldsSamples = false // Reset flag
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "samples: Acme Ltd, Globex Plc")
}

func TestSchemaFieldsCmd_Empty(t *testing.T) {
	oldService := schemaService
	schemaService = &mockSchemaServiceEmpty{}
	defer func() {
		schemaService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"schema", "fields"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No fields found.")
}

func TestSchemaFieldsCmd_ServiceNotConfigured(t *testing.T) {
	oldService := schemaService
	schemaService = nil
	defer func() {
		schemaService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"schema", "fields"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "schema service not configured")
}

func TestSchemaFieldsCmd_ServiceError(t *testing.T) {
	oldService := schemaService
	schemaService = &mockSchemaServiceError{}
	defer func() {
		schemaService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"schema", "fields"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compute field statistics")
}

// Schema Map Tests

func TestSchemaMapCmd_Use(t *testing.T) {
	assert.Equal(t, "map [cluster-id]", schemaMapCmd.Use)
}

func TestSchemaMapCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"schema", "map"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSchemaMapCmd_InvalidID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"schema", "map", "not-a-number"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cluster id")
}

func TestSchemaMapCmd_NoFields(t *testing.T) {
	oldService := schemaService
	schemaService = &mockSchemaServiceEmpty{}
	defer func() {
		schemaService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"schema", "map", "7"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No fields found for this cluster.")
}

// Schema Mappings Tests

func TestSchemaMappingsCmd_Use(t *testing.T) {
	assert.Equal(t, "mappings [cluster-id]", schemaMappingsCmd.Use)
}

func TestSchemaMappingsCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"schema", "mappings", "7"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Mappings for cluster 7:")
	assert.Contains(t, buf.String(), "ccy -> currency")
}

func TestSchemaMappingsCmd_Empty(t *testing.T) {
	oldService := schemaService
	schemaService = &mockSchemaServiceEmpty{}
	defer func() {
		schemaService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"schema", "mappings", "7"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No mappings for cluster 7.")
	assert.Contains(t, buf.String(), "spexplorer schema map 7")
}

func TestSchemaMappingsCmd_InvalidID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"schema", "mappings", "seven"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cluster id")
}

// Schema Apply Tests

func TestSchemaApplyCmd_Use(t *testing.T) {
	assert.Equal(t, "apply [document-id]", schemaApplyCmd.Use)
}

func TestSchemaApplyCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"schema", "apply", "us_acme_custody"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"client_name": "Acme Ltd"`)
	assert.Contains(t, buf.String(), `"currency": "USD"`)
}

func TestSchemaApplyCmd_ServiceError(t *testing.T) {
	oldService := schemaService
	schemaService = &mockSchemaServiceError{}
	defer func() {
		schemaService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"schema", "apply", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply mappings")
}
