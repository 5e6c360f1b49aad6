package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/homepresso/formgraph/internal/config"
	"github.com/homepresso/formgraph/internal/sanitize"
	"github.com/homepresso/formgraph/model"
)

// Writer persists a run's artifacts: one view document per generated view,
// one rule-graph document per form, and the diagnostics report.
type Writer struct {
	dir    string
	pretty bool
	log    *zap.Logger
}

// NewWriter creates a Writer for the configured output directory.
func NewWriter(cfg config.OutputConfig, log *zap.Logger) *Writer {
	return &Writer{dir: cfg.Directory, pretty: cfg.Pretty, log: log}
}

// WriteAll writes every compiled form and the report.
func (w *Writer) WriteAll(result *Result) error {
	for _, cf := range result.Forms {
		if err := w.WriteForm(cf); err != nil {
			return err
		}
	}
	return w.WriteReport(result.Report)
}

// WriteForm writes one form's view documents and rule graph under a
// per-form directory.
func (w *Writer) WriteForm(cf *CompiledForm) error {
	formDir := filepath.Join(w.dir, sanitize.FileName(cf.Form.Name))
	viewDir := filepath.Join(formDir, "views")
	if err := os.MkdirAll(viewDir, 0o755); err != nil {
		return fmt.Errorf("artifacts: creating %s: %w", viewDir, err)
	}

	for _, v := range cf.Form.Views {
		path := filepath.Join(viewDir, sanitize.FileName(v.Name)+".json")
		if err := w.writeJSON(path, v); err != nil {
			return err
		}
	}

	if err := w.writeJSON(filepath.Join(formDir, "rules.json"), cf.Graph); err != nil {
		return err
	}

	w.log.Info("artifacts written",
		zap.String("form", cf.Form.Name),
		zap.String("dir", formDir),
		zap.Int("views", len(cf.Form.Views)),
	)
	return nil
}

// WriteReport writes the run's diagnostics report.
func (w *Writer) WriteReport(report *model.Report) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("artifacts: creating %s: %w", w.dir, err)
	}
	return w.writeJSON(filepath.Join(w.dir, "report.json"), report)
}

func (w *Writer) writeJSON(path string, v any) error {
	var (
		data []byte
		err  error
	)
	if w.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("artifacts: encoding %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("artifacts: writing %s: %w", path, err)
	}
	return nil
}
