package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/homepresso/formgraph/internal/config"
	"github.com/homepresso/formgraph/internal/deploy"
	"github.com/homepresso/formgraph/model"
)

func TestWriteAll_layout(t *testing.T) {
	dir := t.TempDir()

	p := New(testConfig("testdata/models"), zap.NewNop(), deploy.NewDryRun())
	result, err := p.Run(context.Background())
	require.NoError(t, err)

	w := NewWriter(config.OutputConfig{Directory: dir, Pretty: true}, zap.NewNop())
	require.NoError(t, w.WriteAll(result))

	formDir := filepath.Join(dir, "expense-report")
	views, err := os.ReadDir(filepath.Join(formDir, "views"))
	require.NoError(t, err)
	assert.Len(t, views, 6, "one document per generated view")

	// The rule graph round-trips as JSON.
	data, err := os.ReadFile(filepath.Join(formDir, "rules.json"))
	require.NoError(t, err)
	var graph model.RuleGraph
	require.NoError(t, json.Unmarshal(data, &graph))
	assert.Equal(t, "ExpenseReport", graph.FormName)
	assert.NotEmpty(t, graph.States)

	// Pretty output is indented and newline-terminated.
	assert.Contains(t, string(data), "\n  ")
	assert.Equal(t, byte('\n'), data[len(data)-1])

	var report model.Report
	data, err = os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Empty(t, report.Diagnostics)
}

func TestWriteReport_compactMode(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(config.OutputConfig{Directory: dir, Pretty: false}, zap.NewNop())

	report := &model.Report{}
	report.Addf(model.DiagMissingButton, "ExpenseReport", "Cancel", "view %s has no Cancel button", "LineItems_Item")
	require.NoError(t, w.WriteReport(report))

	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data[:len(data)-1]), "\n", "compact mode emits a single line")

	var parsed model.Report
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed.Diagnostics, 1)
	assert.Equal(t, model.DiagMissingButton, parsed.Diagnostics[0].Code)
}
