package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enasequence/sequencetools-sub002/internal/cds"
)

func TestSummaryWriter_OnlyProblems(t *testing.T) {
	var buf bytes.Buffer
	w := NewSummaryWriter(&buf, false, false)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteResult(makeResult(t, "OK1", "1..9", "atgaaataa", cds.ModeReport)))
	require.NoError(t, w.WriteResult(makeResult(t, "BAD1", "1..12", "atgtagaaatag", cds.ModeReport)))
	require.NoError(t, w.Flush())

	output := buf.String()
	assert.NotContains(t, output, "OK1")
	assert.Contains(t, output, "BAD1")
	assert.Contains(t, output, "Translator-17")
	assert.Contains(t, output, "Internal stop codon at position 4.")

	features, fixed, failed := w.Summary()
	assert.Equal(t, 2, features)
	assert.Equal(t, 0, fixed)
	assert.Equal(t, 1, failed)
}

func TestSummaryWriter_ShowAll(t *testing.T) {
	var buf bytes.Buffer
	w := NewSummaryWriter(&buf, true, false)

	require.NoError(t, w.WriteResult(makeResult(t, "OK1", "1..9", "atgaaataa", cds.ModeReport)))
	require.NoError(t, w.Flush())
	assert.Contains(t, buf.String(), "OK1")
	assert.Contains(t, buf.String(), "MK")
}

func TestSummaryWriter_WriteSummary(t *testing.T) {
	var buf bytes.Buffer
	w := NewSummaryWriter(&buf, false, false)

	require.NoError(t, w.WriteResult(makeResult(t, "A", "1..3", "atg", cds.ModeFix)))
	require.NoError(t, w.WriteResult(makeResult(t, "B", "1..3", "atg", cds.ModeFix)))
	require.NoError(t, w.WriteResult(makeResult(t, "C", "1..12", "atgaaataataa", cds.ModeFix)))
	require.NoError(t, w.Flush())

	var summary bytes.Buffer
	w.WriteSummary(&summary)
	out := summary.String()

	assert.Contains(t, out, "Coding features: 3")
	assert.Contains(t, out, "Fixed:           2")
	assert.Contains(t, out, "Failed:          1 (33.3%)")
	assert.Contains(t, out, "ERROR 1  WARNING 0  FIX 2")
	assert.Contains(t, out, "fixNoStopCodonMake3Partial  2")
	assert.Contains(t, out, "Translator-13")
}

func TestSummaryWriter_Colored(t *testing.T) {
	var buf bytes.Buffer
	w := NewSummaryWriter(&buf, false, true)
	require.NoError(t, w.WriteResult(makeResult(t, "BAD1", "1..12", "atgtagaaatag", cds.ModeReport)))
	require.NoError(t, w.Flush())
	assert.Contains(t, buf.String(), "\x1b[")
}
