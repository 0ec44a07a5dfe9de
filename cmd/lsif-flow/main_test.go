package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kingpin"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseIndex(t *testing.T, args ...string) *indexFlags {
	t.Helper()
	app := kingpin.New("lsif-flow", "")
	flags := registerIndexCommand(app)
	registerVerifyCommand(app)

	command, err := app.Parse(args)
	require.NoError(t, err)
	require.Equal(t, indexCommandName, command)
	return flags
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := parseIndex(t, "index", t.TempDir()).resolveConfig()
	require.NoError(t, err)

	assert.Equal(t, "dump.lsif", cfg.Output)
	assert.Equal(t, 4, cfg.Parallelism)
	assert.False(t, cfg.NoProgress)
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "lsif-flow.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
output: from-file.lsif
parallelism: 2
exclude: [/repo/bench]
moniker_scheme: scip
`), 0o644))

	cfg, err := parseIndex(t, "index", "--config", configFile, "-p", "0", "-e", "/repo/gen", "--no-progress", dir).resolveConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-file.lsif", cfg.Output)
	assert.Equal(t, 0, cfg.Parallelism)
	assert.Equal(t, "scip", cfg.MonikerScheme)
	assert.Equal(t, []string{"/repo/bench", "/repo/gen"}, cfg.Exclude)
	assert.True(t, cfg.NoProgress)
}

func TestResolveConfigRejectsNegativeParallelism(t *testing.T) {
	_, err := parseIndex(t, "index", "--parallelism=-1", t.TempDir()).resolveConfig()
	assert.Error(t, err)
}

func TestRunVerify(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()

	sound := filepath.Join(dir, "sound.lsif")
	require.NoError(t, os.WriteFile(sound, []byte(
		`{"id":1,"type":"vertex","label":"metaData"}`+"\n"+
			`{"id":2,"type":"vertex","label":"document"}`+"\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, runVerify(&verifyFlags{dump: sound}, &out))
	assert.Contains(t, out.String(), "Total violation: 0")

	broken := filepath.Join(dir, "broken.lsif")
	require.NoError(t, os.WriteFile(broken, []byte(
		`{"id":1,"type":"vertex","label":"metaData"}`+"\n"+
			`{"id":3,"type":"edge","label":"next","outV":1,"inV":4}`+"\n"), 0o644))

	out.Reset()
	err := runVerify(&verifyFlags{dump: broken}, &out)
	assert.ErrorContains(t, err, "2 violations")
	assert.Contains(t, out.String(), "Warn: line 2, id 3: missing ids 2..2")
	assert.Contains(t, out.String(), "Error: line 2, id 3: inV 4 not indexed")
	assert.Contains(t, out.String(), "Total violation: 2")
}
