// Package output provides report formatting for patient scoring results.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oncoreg/oncoreg/internal/patient"
	"github.com/oncoreg/oncoreg/internal/score"
)

// TabWriter writes gene impact tables in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"gene_name",
			"gene_impact",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single gene impact row.
func (tw *TabWriter) Write(g score.GeneImpact) error {
	_, err := tw.w.WriteString(g.GeneName + "\t" + formatImpact(g.Impact) + "\n")
	return err
}

// WriteAll writes the header and all gene impact rows, then flushes.
func (tw *TabWriter) WriteAll(impacts []score.GeneImpact) error {
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, g := range impacts {
		if err := tw.Write(g); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// formatImpact formats an impact value with 6-digit precision.
func formatImpact(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// WriteSummary writes the patient-level summary block of a report.
func WriteSummary(w io.Writer, r *patient.Report) {
	fmt.Fprintf(w, "rbi\t%s\n", formatImpact(r.RBI))
	fmt.Fprintf(w, "n_variants\t%d\n", r.VariantCount)
	fmt.Fprintf(w, "n_genes\t%d\n", r.GeneCount)
	fmt.Fprintf(w, "total_burden\t%s\n", formatImpact(r.TotalBurden))
}
