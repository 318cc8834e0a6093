package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validConfig = `
staging_dir: data/staging
store_path: data/warehouse.db
logging:
  level: debug
datasets:
  - name: work_experience
    table: Dim_Work_Experience
    source:
      format: csv
      url: https://example.com/work_experience.csv
    cleaning:
      - op: replace
        column: experience
        mapping:
          ">20": "21"
          "<1": "0"
      - op: fill_mode
        column: experience
  - name: training_hours
    table: Fact_Training_Hours
    source:
      format: database
      driver: mysql
      dsn: etl:secret@tcp(localhost:3306)/course
      table: training_hours
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "data/staging", cfg.StagingDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.Len(t, cfg.Datasets, 2)

	ds := cfg.Datasets[0]
	assert.Equal(t, "csv", ds.Source.Format)
	require.Len(t, ds.Cleaning, 2)
	assert.Equal(t, "21", ds.Cleaning[0].Mapping[">20"])

	job := ds.Job()
	assert.Equal(t, "work_experience", job.Name)
	assert.Equal(t, "Dim_Work_Experience", job.Table)
	assert.Len(t, job.Rules, 2)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
datasets:
  - name: d
    table: t
    source:
      format: csv
      url: https://example.com/d.csv
`))
	require.NoError(t, err)
	assert.Equal(t, "data/staging", cfg.StagingDir)
	assert.Equal(t, "data/warehouse.db", cfg.StorePath)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATAPREP_STAGING_DIR", "/tmp/override")
	t.Setenv("DATAPREP_LOGGING_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override", cfg.StagingDir)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"no datasets", "staging_dir: s\nstore_path: p\n", "at least one dataset"},
		{"missing name", `
datasets:
  - table: t
    source: {format: csv, url: u}
`, "name is required"},
		{"missing table", `
datasets:
  - name: d
    source: {format: csv, url: u}
`, "table is required"},
		{"missing url", `
datasets:
  - name: d
    table: t
    source: {format: xlsx}
`, "source url is required"},
		{"unknown format", `
datasets:
  - name: d
    table: t
    source: {format: parquet, url: u}
`, "unknown source format"},
		{"database without dsn", `
datasets:
  - name: d
    table: t
    source: {format: database, driver: mysql}
`, "requires driver, dsn and table"},
		{"duplicate names", `
datasets:
  - name: d
    table: t
    source: {format: csv, url: u}
  - name: d
    table: t2
    source: {format: csv, url: u}
`, "duplicate name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "datasets: [unclosed"))
	assert.Error(t, err)
}
