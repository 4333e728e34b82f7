package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI runs the command line with an isolated config file.
func runCLI(t *testing.T, cfgFile string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	viper.Reset()
	var out, errOut bytes.Buffer
	code = run(append([]string{"--config", cfgFile}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func tempConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "sequencetools.yaml")
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		want     []string
	}{
		{"bacterial", []string{"translate", "--table", "11", "atgaaagcgtaa"}, ExitSuccess, []string{"MKA\n"}},
		{"internal stop", []string{"translate", "atgtagaaatag"}, ExitError, []string{"M*K\n", "ERROR\tTranslator-17"}},
		{"right partial", []string{"translate", "--right-partial", "atgaaa"}, ExitSuccess, []string{"MK\n"}},
		{"fix", []string{"translate", "--fix", "atgaaa"}, ExitSuccess, []string{"MK\n", "FIX\tfixNoStopCodonMake3Partial", "Fixed location: 1..>6"}},
		{"positional exception", []string{"translate", "--except", "4..6:Sec", "atgtgaaaataa"}, ExitSuccess, []string{"MUK\n"}},
		{"codon exception", []string{"translate", "--codon", "tga:Trp", "atgtgaaaataa"}, ExitSuccess, []string{"MWK\n"}},
		{"codon start", []string{"translate", "--codon-start", "2", "--left-partial", "catgtaa"}, ExitSuccess, []string{"M\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, tempConfig(t), tt.args...)
			assert.Equal(t, tt.wantCode, code)
			for _, w := range tt.want {
				assert.Contains(t, stdout, w)
			}
		})
	}
}

func TestTranslateDefaultTableFromEnv(t *testing.T) {
	t.Setenv("SEQUENCETOOLS_TRANSLATION_DEFAULT_TABLE", "2")
	code, stdout, _ := runCLI(t, tempConfig(t), "translate", "atgtgataa")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "MW\n", stdout)
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"translate", "--bogus", "atg"}},
		{"missing sequence", []string{"translate"}},
		{"bad exception", []string{"translate", "--except", "4..6", "atgtgaaaataa"}},
		{"extra argument", []string{"tables", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tempConfig(t), tt.args...)
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestTables(t *testing.T) {
	code, stdout, _ := runCLI(t, tempConfig(t), "tables")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Standard")
	assert.Contains(t, stdout, "TAA,TAG,TGA")
	assert.Contains(t, stdout, "Vertebrate Mitochondrial")
}

func TestConfigSetGet(t *testing.T) {
	cfg := tempConfig(t)

	code, stdout, _ := runCLI(t, cfg, "config", "set", "translation.default_table", "11")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Set translation.default_table = 11")

	code, stdout, _ = runCLI(t, cfg, "config", "get", "translation.default_table")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "11\n", stdout)

	code, stdout, _ = runCLI(t, cfg, "config")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "default_table: 11")

	code, _, _ = runCLI(t, cfg, "config", "get", "no.such.key")
	assert.Equal(t, ExitError, code)
}

const featureTable = `
entries:
  - accession: E1
    features:
      - key: CDS
        location: "1..12"
        qualifiers:
          - {name: transl_table, value: "11"}
  - accession: E2
    features:
      - key: CDS
        location: "1..12"
        qualifiers:
          - {name: translation, value: MK}
  - accession: E3
    features:
      - key: CDS
        location: "1..6"
`

const sequences = `>E1
atgaaagcgtaa
>E2
atgtagaaatag
>E3
atgaaa
`

func writeInputs(t *testing.T) (tablePath, fastaPath string) {
	t.Helper()
	dir := t.TempDir()
	tablePath = filepath.Join(dir, "entries.yaml")
	fastaPath = filepath.Join(dir, "entries.fa")
	require.NoError(t, os.WriteFile(tablePath, []byte(featureTable), 0644))
	require.NoError(t, os.WriteFile(fastaPath, []byte(sequences), 0644))
	return tablePath, fastaPath
}

func TestValidateReport(t *testing.T) {
	tablePath, fastaPath := writeInputs(t)

	code, stdout, stderr := runCLI(t, tempConfig(t), "validate", tablePath, fastaPath)
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "2 of 3 coding features failed translation")

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "#Entry"))
	assert.Contains(t, lines[1], "E1\t1..12\t-\t11\tOK\tMKA")
	assert.Contains(t, lines[2], "ERROR:Translator-17")
	assert.Contains(t, lines[3], "ERROR:Translator-15")
}

func TestValidateFix(t *testing.T) {
	tablePath, fastaPath := writeInputs(t)
	dir := t.TempDir()
	fixedPath := filepath.Join(dir, "fixed.yaml")
	dbPath := filepath.Join(dir, "results.duckdb")

	code, stdout, stderr := runCLI(t, tempConfig(t), "validate",
		"--fix", "--write-fixed", fixedPath, "--duckdb", dbPath,
		"-f", "summary", "--color=false", "--workers", "2",
		tablePath, fastaPath)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "fixInternalStopCodonMakePseudo")
	assert.Contains(t, stderr, "Fixed:           2")

	fixed, err := os.ReadFile(fixedPath)
	require.NoError(t, err)
	assert.Contains(t, string(fixed), "1..>6")
	assert.Contains(t, string(fixed), "name: pseudo")
	assert.NotContains(t, string(fixed), "name: translation")
	assert.NotContains(t, string(fixed), "sequence:")

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestValidateUnknownFormat(t *testing.T) {
	tablePath, _ := writeInputs(t)
	code, _, stderr := runCLI(t, tempConfig(t), "validate", "-f", "xml", tablePath)
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, `unknown output format "xml"`)
}

func TestValidateMissingInput(t *testing.T) {
	code, _, _ := runCLI(t, tempConfig(t), "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, ExitError, code)
}
