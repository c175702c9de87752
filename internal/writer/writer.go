package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/mhodges/phraserank/internal/extractor"
)

// WarningKind classifies the recoverable conditions a write can surface.
type WarningKind int

const (
	// WarnEmptyResult: the phrase list was empty, the write was skipped,
	// and no artifact was created or altered.
	WarnEmptyResult WarningKind = iota
	// WarnOverwrite: the destination already existed. Advisory only; the
	// write proceeds and replaces the previous content.
	WarnOverwrite
)

func (k WarningKind) String() string {
	switch k {
	case WarnEmptyResult:
		return "empty-result"
	case WarnOverwrite:
		return "overwrite"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal condition surfaced to the caller. Warnings never
// abort processing of subsequent files or batches.
type Warning struct {
	Kind WarningKind
	Path string
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnEmptyResult:
		return fmt.Sprintf("no phrases found in %s, skipping", w.Path)
	case WarnOverwrite:
		return fmt.Sprintf("%s already exists, overwriting", w.Path)
	default:
		return fmt.Sprintf("%s: %s", w.Kind, w.Path)
	}
}

// header field order is fixed: text, rank, count
var header = []string{"text", "rank", "count"}

// Writer serializes phrase lists to CSV record files.
type Writer struct {
	perm os.FileMode
}

// New creates a Writer. perm 0 uses the default file mode.
func New(perm os.FileMode) *Writer {
	if perm == 0 {
		perm = 0o644
	}
	return &Writer{perm: perm}
}

// Write persists phrases to dest as CSV, applying the skip/overwrite
// policy: an empty list is skipped with a WarnEmptyResult warning, and an
// existing destination is overwritten with a WarnOverwrite warning. The
// returned warnings are advisory; a nil error means the policy was
// applied cleanly, whether or not an artifact was produced.
func (w *Writer) Write(dest string, phrases extractor.PhraseList) ([]Warning, error) {
	if len(phrases) == 0 {
		return []Warning{{Kind: WarnEmptyResult, Path: dest}}, nil
	}

	var warnings []Warning
	if info, err := os.Stat(dest); err == nil && !info.IsDir() {
		warnings = append(warnings, Warning{Kind: WarnOverwrite, Path: dest})
	}

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, w.perm)
	if err != nil {
		return warnings, fmt.Errorf("create %s: %w", dest, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		_ = f.Close()
		return warnings, fmt.Errorf("write header to %s: %w", dest, err)
	}

	for _, p := range phrases {
		record := []string{
			p.Text,
			strconv.FormatFloat(p.Rank, 'g', -1, 64),
			strconv.Itoa(p.Count),
		}
		if err := cw.Write(record); err != nil {
			_ = f.Close()
			return warnings, fmt.Errorf("write record to %s: %w", dest, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = f.Close()
		return warnings, fmt.Errorf("flush %s: %w", dest, err)
	}

	if err := f.Close(); err != nil {
		return warnings, fmt.Errorf("close %s: %w", dest, err)
	}

	return warnings, nil
}
