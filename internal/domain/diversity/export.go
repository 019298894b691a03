package diversity

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

// ledgerEntry is one admitted structure in admission order.
type ledgerEntry struct {
	signature string
	member    Member
}

// ExportCSV writes the bucket ledger as CSV: one row per admitted
// structure in admission order, with one column per component name in the
// given order.  Missing component values render as empty cells.
func (f *Filter) ExportCSV(w io.Writer, runLabel string, componentNames []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cw := csv.NewWriter(w)

	header := append([]string{"scaffold", "smiles", "total_score"}, componentNames...)
	header = append(header, "id", "run")
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, errors.ErrCodeDiversityExportFailed, "failed to write ledger header")
	}

	for _, entry := range f.ledger {
		row := make([]string, 0, len(header))
		row = append(row, entry.signature, entry.member.SMILES, formatScore(entry.member.Score))
		for _, name := range componentNames {
			if v, ok := entry.member.Transformed[name]; ok {
				row = append(row, formatScore(v))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, entry.member.ID, runLabel)
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, errors.ErrCodeDiversityExportFailed, "failed to write ledger row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDiversityExportFailed, "failed to flush ledger")
	}
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
