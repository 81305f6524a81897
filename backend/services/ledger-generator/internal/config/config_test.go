package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lremanager/backend/services/ledger-generator/internal/generator"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4000/api", cfg.API.BaseURL)
	assert.Equal(t, 1, cfg.Generator.Workers)
	assert.False(t, cfg.Generator.DryRun)
	assert.Zero(t, cfg.HTTPTimeout())

	programs, err := cfg.SeedPrograms()
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Equal(t, int64(1), programs[0].ID)
	assert.Equal(t, "Annual Program", programs[0].Name)
	assert.Equal(t, generator.ModeAnnual, programs[0].Mode)
	assert.Equal(t, 40, programs[0].Count)
	assert.Equal(t, int64(2), programs[1].ID)
	assert.Equal(t, "POP Program", programs[1].Name)
	assert.Equal(t, generator.ModePOP, programs[1].Mode)
	assert.Equal(t, 40, programs[1].Count)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := writeFile(t, "gen.yaml", `
api:
  baseUrl: http://ledger:9000/api
  timeoutSeconds: 10
generator:
  seed: 42
  workers: 4
programs:
  - id: 7
    name: Seven
    mode: POP
    count: 3
`)
	t.Setenv("LEDGER_GENERATOR_WORKERS", "2")
	t.Setenv("LEDGER_GENERATOR_DRY_RUN", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://ledger:9000/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, uint64(42), cfg.Generator.Seed)
	assert.Equal(t, 2, cfg.Generator.Workers)
	assert.True(t, cfg.Generator.DryRun)

	programs, err := cfg.SeedPrograms()
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, generator.ModePOP, programs[0].Mode)
	assert.Equal(t, 3, programs[0].Count)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "gen.toml", `
[api]
baseUrl = "http://127.0.0.1:4000/api"

[journal]
redisAddr = "localhost:6379"
keep = 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:4000/api", cfg.API.BaseURL)
	assert.Equal(t, "localhost:6379", cfg.Journal.RedisAddr)
	assert.Equal(t, 5, cfg.Journal.Keep)
	assert.Len(t, cfg.Programs, 2)
}

func TestLoadProgramsWithoutCountMatchAcrossFormats(t *testing.T) {
	files := map[string]string{
		"gen.yaml": `
programs:
  - id: 3
    name: X
    mode: pop
`,
		"gen.json": `{"programs":[{"id":3,"name":"X","mode":"pop"}]}`,
		"gen.toml": `
[[programs]]
id = 3
name = "X"
mode = "pop"
`,
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, name, body))
			require.NoError(t, err)
			assert.Equal(t, []Program{{ID: 3, Name: "X", Mode: "pop", Count: DefaultProgramCount}}, cfg.Programs)
		})
	}
}

func TestLoadProgramsKeepExplicitCountAcrossFormats(t *testing.T) {
	files := map[string]string{
		"gen.yaml": "programs:\n  - {id: 3, name: X, mode: pop, count: 5}\n",
		"gen.json": `{"programs":[{"id":3,"name":"X","mode":"pop","count":5}]}`,
		"gen.toml": "[[programs]]\nid = 3\nname = \"X\"\nmode = \"pop\"\ncount = 5\n",
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, name, body))
			require.NoError(t, err)
			assert.Equal(t, []Program{{ID: 3, Name: "X", Mode: "pop", Count: 5}}, cfg.Programs)
		})
	}
}

func TestLoadProgramsDoNotInheritDefaults(t *testing.T) {
	files := map[string]string{
		"gen.yaml": "programs:\n  - {id: 3, mode: pop}\n",
		"gen.json": `{"programs":[{"id":3,"mode":"pop"}]}`,
		"gen.toml": "[[programs]]\nid = 3\nmode = \"pop\"\n",
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, name, body))
			assert.ErrorContains(t, err, "Name")
		})
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	path := writeFile(t, "gen.json", `{"programs":[{"id":1,"name":"X","mode":"quarterly","count":1}]}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, generator.ErrUnknownMode)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"workers":        `{"generator":{"workers":0}}`,
		"duplicate id":   `{"programs":[{"id":1,"name":"A","mode":"annual","count":1},{"id":1,"name":"B","mode":"pop","count":1}]}`,
		"no programs":    `{"programs":[]}`,
		"negative count": `{"programs":[{"id":1,"name":"A","mode":"annual","count":-1}]}`,
		"bad url":        `{"api":{"baseUrl":"not a url"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "gen.json", body))
			assert.Error(t, err)
		})
	}
}

func TestJournalTTL(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 30*24*time.Hour, cfg.JournalTTL())
}
