package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Yaml(t *testing.T) {
	path := writeConfig(t, ".a11ygrade.yaml", `
workers: 4
store: sqlite
report:
  format: xlsx
  prefix: nightly
summary:
  queries:
    - name: Grades
      query: SELECT grade, COUNT(*) FROM audits GROUP BY grade
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, "xlsx", cfg.Report.Format)
	assert.Equal(t, "nightly", cfg.Report.Prefix)
	assert.Equal(t, ".", cfg.Report.OutputDir, "unset fields keep their defaults")
	require.Len(t, cfg.Summary.Queries, 1)
	assert.Equal(t, "Grades", cfg.Summary.Queries[0].Name)
}

func TestLoadConfig_Toml(t *testing.T) {
	path := writeConfig(t, ".a11ygrade.toml", `
workers = 2
exclude = ["**/legacy/**"]

[server]
addr = ":8080"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{"**/legacy/**"}, cfg.Exclude)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxRequestBytes)
}

func TestLoadConfig_Hcl(t *testing.T) {
	t.Setenv("A11Y_TEST_PREFIX", "from-env")

	path := writeConfig(t, ".a11ygrade.hcl", `
workers = 3
include = ["**/*.tsx", "**/*.html"]

report {
  format = "json"
  prefix = env.A11Y_TEST_PREFIX
}

gitlab {
  no_cache = true
}

query "Worst Files" {
  sql = "SELECT path FROM audits ORDER BY score LIMIT 10"
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, []string{"**/*.tsx", "**/*.html"}, cfg.Include)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.Equal(t, "from-env", cfg.Report.Prefix)
	assert.True(t, cfg.Gitlab.NoCache)
	require.Len(t, cfg.Summary.Queries, 1)
	assert.Equal(t, "Worst Files", cfg.Summary.Queries[0].Name)
	assert.Contains(t, cfg.Summary.Queries[0].Query, "ORDER BY score")
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "config.ini", "workers=1"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = LoadConfig(writeConfig(t, "broken.hcl", "report {"))
	assert.ErrorContains(t, err, "failed to decode HCL config")
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("A11Y_WORKERS", "7")
	t.Setenv("A11Y_REPORT_FORMAT", "http")
	t.Setenv("A11Y_MAX_REQUEST_BYTES", "2048")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("PORT", "9000")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, "http", cfg.Report.Format)
	assert.Equal(t, int64(2048), cfg.Server.MaxRequestBytes)
	assert.Equal(t, "ghp_test", cfg.GithubToken)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestApplyEnv_IgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("A11Y_WORKERS", "many")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, 10, cfg.Workers)
}

type DummyParameterStore struct {
	Value *string
	Err   error
	Input *ssm.GetParameterInput
}

func (d *DummyParameterStore) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	d.Input = params
	if d.Err != nil {
		return nil, d.Err
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: d.Value}}, nil
}

func TestLoadFromSSM(t *testing.T) {
	store := &DummyParameterStore{Value: aws.String("report:\n  format: http\n  base_url: https://reports.example.com\n")}

	cfg := Default()
	err := LoadFromSSM(context.Background(), store, "/a11ygrade/config", &cfg)
	require.NoError(t, err)

	assert.Equal(t, "/a11ygrade/config", aws.ToString(store.Input.Name))
	assert.True(t, aws.ToBool(store.Input.WithDecryption))
	assert.Equal(t, "http", cfg.Report.Format)
	assert.Equal(t, "https://reports.example.com", cfg.Report.BaseURL)
}

func TestLoadFromSSM_Errors(t *testing.T) {
	cfg := Default()

	err := LoadFromSSM(context.Background(), &DummyParameterStore{Err: errors.New("denied")}, "/x", &cfg)
	assert.ErrorContains(t, err, "denied")

	err = LoadFromSSM(context.Background(), &DummyParameterStore{}, "/x", &cfg)
	assert.ErrorContains(t, err, "has no value")
}
