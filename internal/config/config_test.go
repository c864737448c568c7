package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"), nil)
	require.NoError(t, err)

	assert.Equal(t, "https://gw-front.wconcept.co.kr/display/api/best/v1/product", cfg.WConcept.ProductEndpoint)
	assert.Equal(t, 3, cfg.WConcept.MaxRetries)
	assert.Equal(t, "WOMEN", cfg.WConcept.Domain)
	assert.Equal(t, []string{"HACIE", "하시에"}, cfg.Brands)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, "wconcept_best", cfg.Output.FilePrefix)
	assert.Equal(t, 200, cfg.Export.PageSize)
	assert.Equal(t, 0, cfg.Export.MaxPages)
	assert.Equal(t, "data/best_categories.json", cfg.Categories.CacheFile)
	assert.Equal(t, 30, int(cfg.WConcept.RequestTimeout().Seconds()))

	loc, err := cfg.Output.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", loc.String())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
wconcept:
  max_requests_per_second: 5
output:
  dir: snapshots
brands:
  - HACIE
`)
	t.Setenv("BESTCRAWL_OUTPUT_FILE_PREFIX", "best")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.WConcept.MaxRequestsPerSecond)
	assert.Equal(t, "snapshots", cfg.Output.Dir)
	assert.Equal(t, "best", cfg.Output.FilePrefix)
	assert.Equal(t, []string{"HACIE"}, cfg.Brands)
}

func TestLoad_FlagsWinOverFile(t *testing.T) {
	path := writeConfig(t, "export:\n  page_size: 100\n")

	flags := pflag.NewFlagSet("export", pflag.ContinueOnError)
	flags.Int("page-size", 200, "")
	flags.Int("max-pages", 0, "")
	flags.Bool("test-mode", false, "")
	require.NoError(t, flags.Parse([]string{"--page-size=50", "--test-mode"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Export.PageSize)
	assert.True(t, cfg.Export.TestMode)
	assert.Equal(t, 0, cfg.Export.MaxPages)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad page size", "export:\n  page_size: 0\n"},
		{"bad date type", "wconcept:\n  date_type: hourly\n"},
		{"bad timezone", "output:\n  timezone: Mars/Olympus\n"},
		{"bad endpoint", "wconcept:\n  product_endpoint: not-a-url\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}
