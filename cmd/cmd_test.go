package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "héé", truncate("hééllo", 3))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.00123))
	assert.Equal(t, "$1.50", formatCost(1.5))
}

func TestFormatOptFloat(t *testing.T) {
	v := 81.25
	assert.Equal(t, "-", formatOptFloat(nil, "%.1f"))
	assert.Equal(t, "81", formatOptFloat(&v, "%.0f"))
	assert.Equal(t, "-", orDash(""))
}

// newFlagCmd returns a command carrying the feedback flags.
func newFlagCmd() *cobra.Command {
	c := &cobra.Command{Use: "t"}
	c.Flags().Float64P("score", "s", 0, "")
	c.Flags().Float64P("duration", "d", 0, "")
	c.Flags().String("pitch-data", "", "")
	c.Flags().String("pitch-file", "", "")
	c.Flags().String("session", "", "")
	return c
}

func TestAnalyzeRequestFromFlags(t *testing.T) {
	c := newFlagCmd()
	require.NoError(t, c.Flags().Parse([]string{"--score", "0", "--duration", "12.5", "--pitch-data", `{"a":1}`}))

	req, err := analyzeRequestFromFlags(c)
	require.NoError(t, err)
	require.NotNil(t, req.Score)
	assert.Equal(t, 0.0, *req.Score)
	require.NotNil(t, req.DurationSeconds)
	assert.Equal(t, 12.5, *req.DurationSeconds)
	assert.JSONEq(t, `{"a":1}`, string(req.PitchData))
	assert.Empty(t, req.SessionID)
}

func TestAnalyzeRequestFromFlags_MissingScore(t *testing.T) {
	c := newFlagCmd()
	require.NoError(t, c.Flags().Parse(nil))

	req, err := analyzeRequestFromFlags(c)
	require.NoError(t, err)
	assert.Nil(t, req.Score)
}

func TestAnalyzeRequestFromFlags_PitchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pitch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"notes":["A4","B4"]}`), 0o600))

	c := newFlagCmd()
	require.NoError(t, c.Flags().Parse([]string{"--score", "70", "--pitch-file", path}))

	req, err := analyzeRequestFromFlags(c)
	require.NoError(t, err)
	var v map[string][]string
	require.NoError(t, json.Unmarshal(req.PitchData, &v))
	assert.Equal(t, []string{"A4", "B4"}, v["notes"])
}

func TestAnalyzeRequestFromFlags_Errors(t *testing.T) {
	c := newFlagCmd()
	require.NoError(t, c.Flags().Parse([]string{"--pitch-data", "{}", "--pitch-file", "x.json"}))
	_, err := analyzeRequestFromFlags(c)
	assert.Error(t, err)

	c = newFlagCmd()
	require.NoError(t, c.Flags().Parse([]string{"--pitch-data", "{broken"}))
	_, err = analyzeRequestFromFlags(c)
	assert.Error(t, err)
}
