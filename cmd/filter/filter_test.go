package filter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/endorses/seqfilter/internal/pkg/logger"
	"github.com/endorses/seqfilter/internal/pkg/output"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// setupCLI points the commands at a fresh filter directory and captures exits.
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	viper.Reset()
	viper.Set("filters.dir", dir)
	t.Cleanup(viper.Reset)

	prevLogger := logger.Get()
	t.Cleanup(func() {
		logger.SetLogger(prevLogger)
		diagnostics = nil
	})
	return dir
}

func run(t *testing.T, args ...string) cliResult {
	t.Helper()

	// Flag variables outlive a single execution
	zoneName, showDiagnostics = "", false
	addType, addRuntime, rmType = "", false, ""
	listJSON, decodeJSON = false, false
	matchLevel, matchFile, matchJSON = 1, "", false

	res := cliResult{}
	prevExit := osExit
	osExit = func(code int) { res.exitCode = code }
	defer func() { osExit = prevExit }()

	var stdout, stderr bytes.Buffer
	FilterCmd.SetOut(&stdout)
	FilterCmd.SetErr(&stderr)
	FilterCmd.SetArgs(args)
	require.NoError(t, FilterCmd.Execute())

	res.stdout = stdout.String()
	res.stderr = stderr.String()
	return res
}

func TestAddListRemove(t *testing.T) {
	dir := setupCLI(t)

	res := run(t, "add", "--type", "Hunt", "Name:.*Orc.*:;5-10")
	require.Equal(t, ExitSuccess, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, `"status":"added"`)
	assert.FileExists(t, filepath.Join(dir, "global.xml"))

	res = run(t, "add", "--type", "Hunt", "Name:.*Orc.*:")
	assert.Equal(t, ExitValidationError, res.exitCode)
	assert.Contains(t, res.stderr, "INVALID_ARGUMENT")

	res = run(t, "add", "--type", "Danger", "--zone", "qeynos", "Name:Fippy")
	require.Equal(t, ExitSuccess, res.exitCode, res.stderr)
	assert.FileExists(t, filepath.Join(dir, "qeynos.xml"))

	res = run(t, "list", "--json", "--zone", "qeynos")
	require.Equal(t, ExitSuccess, res.exitCode, res.stderr)
	var rows []output.FilterRow
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	assert.Equal(t, []output.FilterRow{
		{Scope: "global", Type: "Hunt", Pattern: "Name:.*Orc.*:", MinLevel: 5, MaxLevel: 10},
		{Scope: "zone", Type: "Danger", Pattern: "Name:Fippy"},
	}, rows)

	res = run(t, "list")
	assert.Contains(t, res.stdout, "[GLOBAL]")
	assert.NotContains(t, res.stdout, "[ZONE]")

	res = run(t, "rm", "--type", "Hunt", "Name:.*Orc.*:")
	require.Equal(t, ExitSuccess, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, `"status":"removed"`)

	res = run(t, "rm", "--type", "Hunt", "Name:.*Orc.*:")
	assert.Equal(t, ExitNotFoundError, res.exitCode)
	assert.Contains(t, res.stderr, "NOT_FOUND")
}

func TestAddValidation(t *testing.T) {
	setupCLI(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"invalid regex", []string{"add", "--type", "Hunt", "Name:(Orc"}, ExitValidationError},
		{"invalid level", []string{"add", "--type", "Hunt", "Name:Orc;x"}, ExitValidationError},
		{"unknown type", []string{"add", "--type", "Quest", "Name:Orc"}, ExitValidationError},
		{"runtime with zone", []string{"add", "--type", "Hunt", "--runtime", "--zone", "qeynos", "Name:Orc"}, ExitValidationError},
		{"invalid zone", []string{"add", "--type", "Hunt", "--zone", "../etc", "Name:Orc"}, ExitValidationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args...)
			assert.Equal(t, tt.code, res.exitCode, res.stderr)
		})
	}
}

func TestAddRuntimeIsNotPersisted(t *testing.T) {
	dir := setupCLI(t)

	res := run(t, "add", "--type", "Tracer", "--runtime", "Name:Fippy")
	require.Equal(t, ExitSuccess, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, `"persisted":false`)
	assert.NoFileExists(t, filepath.Join(dir, "global.xml"))
}

func TestMatch(t *testing.T) {
	dir := setupCLI(t)
	require.Equal(t, ExitSuccess, run(t, "add", "--type", "Hunt", "Name:.*Orc.*:;5-10").exitCode)
	require.Equal(t, ExitSuccess, run(t, "add", "--type", "Danger", "--zone", "qeynos", "Name:Fippy").exitCode)

	res := run(t, "match", "--json", "--zone", "qeynos", "--level", "7", "Name:Orc Pawn:", "Name:Fippy Darkpaw:")
	require.Equal(t, ExitSuccess, res.exitCode, res.stderr)
	var results []MatchResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &results))
	require.Len(t, results, 2)
	assert.Equal(t, []string{"Hunt"}, results[0].Types)
	assert.Equal(t, uint32(1), results[0].Mask)
	assert.Equal(t, []string{"Danger"}, results[1].Types)

	spawns := filepath.Join(dir, "spawns.tsv")
	require.NoError(t, os.WriteFile(spawns, []byte("7\tName:Orc Pawn:\n# comment\n\n20\tName:Orc Pawn:\n"), 0600))
	res = run(t, "match", "--json", "--file", spawns)
	require.Equal(t, ExitSuccess, res.exitCode, res.stderr)
	results = nil
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &results))
	require.Len(t, results, 2)
	assert.Equal(t, []string{"Hunt"}, results[0].Types)
	assert.Equal(t, uint8(20), results[1].Level)
	assert.Empty(t, results[1].Types)

	res = run(t, "match", "--level", "7", "Name:Orc Pawn:")
	assert.Contains(t, res.stdout, "Hunt")

	res = run(t, "match")
	assert.Equal(t, ExitValidationError, res.exitCode)

	res = run(t, "match", "--file", filepath.Join(dir, "missing.tsv"))
	assert.Equal(t, ExitNotFoundError, res.exitCode)
}

func TestDecodeEncode(t *testing.T) {
	setupCLI(t)

	res := run(t, "decode", "--json", "Name:Bob:Level:10:;5-10")
	require.Equal(t, ExitSuccess, res.exitCode, res.stderr)
	var fields map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &fields))
	assert.Equal(t, map[string]string{"Name": "Bob", "Level": "10", "MinLevel": "5", "MaxLevel": "10"}, fields)

	res = run(t, "decode", "Info:.*H:Helm:")
	assert.Contains(t, res.stdout, "Info.H")
	assert.Contains(t, res.stdout, "Helm")

	res = run(t, "encode", "Name=Bob", "Level=10", "MinLevel=5", "MaxLevel=10")
	require.Equal(t, ExitSuccess, res.exitCode, res.stderr)
	assert.Equal(t, "Name:Bob:Level:10:;5-10\n", res.stdout)

	res = run(t, "encode", "Bogus=1")
	assert.Equal(t, ExitValidationError, res.exitCode)

	res = run(t, "encode", "Name")
	assert.Equal(t, ExitValidationError, res.exitCode)
}

func TestDiagnostics(t *testing.T) {
	setupCLI(t)

	res := run(t, "decode", "--diagnostics", "Bogus:1:Name:Bob:")
	require.Equal(t, ExitSuccess, res.exitCode)
	assert.Contains(t, res.stderr, "WRN unknown filter field")
}

func TestExportImport(t *testing.T) {
	dir := setupCLI(t)
	require.Equal(t, ExitSuccess, run(t, "add", "--type", "Hunt", "Name:.*Orc.*:;5-10").exitCode)
	require.Equal(t, ExitSuccess, run(t, "add", "--type", "Caution", "Race:Troll").exitCode)

	exported := filepath.Join(dir, "export", "global.yaml")
	res := run(t, "export", exported)
	require.Equal(t, ExitSuccess, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, `"filters":2`)

	res = run(t, "import", "--zone", "freeport", exported)
	require.Equal(t, ExitSuccess, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, `"filters":2`)
	assert.FileExists(t, filepath.Join(dir, "freeport.xml"))

	// Importing again only reports duplicates
	res = run(t, "import", "--zone", "freeport", exported)
	require.Equal(t, ExitSuccess, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, `"filters":0`)
	assert.Contains(t, res.stdout, "duplicate")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("sections:\n  - name: Quest\n    filters:\n      - pattern: Name:Orc\n"), 0600))
	res = run(t, "import", bad)
	require.Equal(t, ExitSuccess, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, "unknown filter type: Quest")

	res = run(t, "import", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, ExitNotFoundError, res.exitCode)
}
