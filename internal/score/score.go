// Package score defines variant score tables and the aggregation that
// collapses them into per-gene impact values and a patient-level burden index.
package score

import (
	"math"
	"sort"

	"github.com/oncoreg/oncoreg/internal/variant"
)

// Output types returned by the prediction service's recommended scorers.
const (
	OutputRNASeq         = "RNA_SEQ"
	OutputATAC           = "ATAC"
	OutputCAGE           = "CAGE"
	OutputDNase          = "DNASE"
	OutputChIPTF         = "CHIP_TF"
	OutputChIPHistone    = "CHIP_HISTONE"
	OutputSpliceJunction = "SPLICE_JUNCTIONS"
)

// Row is one regulatory-effect prediction: the effect of a variant on one
// gene, for one output type, in one tissue. RawScore is a signed effect
// magnitude; for RNA_SEQ it is a log fold change and may be negative.
// QuantileScore is a percentile rank in [0,1], carried through unchanged.
type Row struct {
	GeneName      string  `json:"gene_name"`
	OutputType    string  `json:"output_type"`
	TissueID      string  `json:"ontology_curie"`
	BiosampleName string  `json:"biosample_name"`
	RawScore      float64 `json:"raw_score"`
	QuantileScore float64 `json:"quantile_score"`
}

// Table holds all score rows produced by scoring a single variant.
type Table struct {
	Variant variant.Variant `json:"variant"`
	Rows    []Row           `json:"rows"`
}

// GeneImpact is the aggregated impact of all of a patient's variants on one
// gene: the mean absolute raw score over tissue- and assay-matched rows.
type GeneImpact struct {
	GeneName string
	Impact   float64
}

// AggregateGeneImpact collapses per-variant score tables into one impact
// value per gene. Rows are filtered to the target tissue and output type,
// grouped by gene name, and reduced to mean(|raw_score|). Taking the
// absolute value per row keeps a gene with offsetting up/down effects from
// averaging out to zero. The result is sorted by impact descending, gene
// name ascending on ties. Empty input yields an empty (non-nil) slice.
func AggregateGeneImpact(tables []Table, tissueID, outputType string) []GeneImpact {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, t := range tables {
		for _, r := range t.Rows {
			if r.TissueID != tissueID || r.OutputType != outputType {
				continue
			}
			sums[r.GeneName] += math.Abs(r.RawScore)
			counts[r.GeneName]++
		}
	}

	impacts := make([]GeneImpact, 0, len(sums))
	for gene, sum := range sums {
		impacts = append(impacts, GeneImpact{
			GeneName: gene,
			Impact:   sum / float64(counts[gene]),
		})
	}

	sort.Slice(impacts, func(i, j int) bool {
		if impacts[i].Impact != impacts[j].Impact {
			return impacts[i].Impact > impacts[j].Impact
		}
		return impacts[i].GeneName < impacts[j].GeneName
	})

	return impacts
}

// NormalizeBurden reduces gene impacts to the patient-level Regulatory
// Burden Index: sum of impacts divided by the number of affected genes.
// Normalizing by gene count keeps patients with more called variants from
// scoring higher on volume alone. A patient with no affected genes has a
// burden of 0.0; this is a defined outcome, not an error.
func NormalizeBurden(impacts []GeneImpact) float64 {
	if len(impacts) == 0 {
		return 0.0
	}
	return TotalBurden(impacts) / float64(len(impacts))
}

// TotalBurden returns the unnormalized sum of gene impacts.
func TotalBurden(impacts []GeneImpact) float64 {
	var total float64
	for _, g := range impacts {
		total += g.Impact
	}
	return total
}
