package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncoreg/oncoreg/internal/variant"
)

const breastTissue = "UBERON:0008367"

func row(gene, outputType, tissueID string, raw float64) Row {
	return Row{
		GeneName:      gene,
		OutputType:    outputType,
		TissueID:      tissueID,
		RawScore:      raw,
		QuantileScore: 0.5,
	}
}

func table(rows ...Row) Table {
	return Table{
		Variant: variant.Variant{Chrom: "chr17", Pos: 43044000, Ref: "C", Alt: "T"},
		Rows:    rows,
	}
}

func TestAggregateGeneImpact_MeanAbsolute(t *testing.T) {
	// A gene with offsetting up/down effects must not average out to zero.
	tables := []Table{
		table(row("BRCA1", OutputRNASeq, breastTissue, 2.0)),
		table(row("BRCA1", OutputRNASeq, breastTissue, -2.0)),
	}

	impacts := AggregateGeneImpact(tables, breastTissue, OutputRNASeq)
	require.Len(t, impacts, 1)
	assert.Equal(t, "BRCA1", impacts[0].GeneName)
	assert.InDelta(t, 2.0, impacts[0].Impact, 1e-9)
}

func TestAggregateGeneImpact_OneRowPerGene(t *testing.T) {
	tables := []Table{
		table(
			row("TP53", OutputRNASeq, breastTissue, 1.0),
			row("TP53", OutputRNASeq, breastTissue, 3.0),
			row("BRCA1", OutputRNASeq, breastTissue, 0.5),
		),
		table(row("TP53", OutputRNASeq, breastTissue, 2.0)),
	}

	impacts := AggregateGeneImpact(tables, breastTissue, OutputRNASeq)
	require.Len(t, impacts, 2)

	seen := map[string]float64{}
	for _, g := range impacts {
		_, dup := seen[g.GeneName]
		require.False(t, dup, "gene %s appears twice", g.GeneName)
		seen[g.GeneName] = g.Impact
	}
	assert.InDelta(t, 2.0, seen["TP53"], 1e-9)
	assert.InDelta(t, 0.5, seen["BRCA1"], 1e-9)
}

func TestAggregateGeneImpact_FiltersTissueAndOutputType(t *testing.T) {
	tables := []Table{
		table(
			row("BRCA1", OutputRNASeq, breastTissue, 1.0),
			row("BRCA1", OutputATAC, breastTissue, 100.0),       // wrong assay
			row("BRCA1", OutputRNASeq, "UBERON:0002048", 100.0), // wrong tissue
			row("EGFR", OutputCAGE, "UBERON:0002048", 100.0),    // both wrong
		),
	}

	impacts := AggregateGeneImpact(tables, breastTissue, OutputRNASeq)
	require.Len(t, impacts, 1)
	assert.Equal(t, "BRCA1", impacts[0].GeneName)
	assert.InDelta(t, 1.0, impacts[0].Impact, 1e-9)
}

func TestAggregateGeneImpact_OrderInvariant(t *testing.T) {
	a := table(
		row("TP53", OutputRNASeq, breastTissue, 3.0),
		row("BRCA1", OutputRNASeq, breastTissue, -1.0),
	)
	b := table(row("TP53", OutputRNASeq, breastTissue, -5.0))

	forward := AggregateGeneImpact([]Table{a, b}, breastTissue, OutputRNASeq)
	reversed := AggregateGeneImpact([]Table{b, a}, breastTissue, OutputRNASeq)

	assert.Equal(t, forward, reversed)
}

func TestAggregateGeneImpact_SortedDescending(t *testing.T) {
	tables := []Table{
		table(
			row("LOW", OutputRNASeq, breastTissue, 0.1),
			row("HIGH", OutputRNASeq, breastTissue, 5.0),
			row("MID", OutputRNASeq, breastTissue, 2.0),
		),
	}

	impacts := AggregateGeneImpact(tables, breastTissue, OutputRNASeq)
	require.Len(t, impacts, 3)
	assert.Equal(t, "HIGH", impacts[0].GeneName)
	assert.Equal(t, "MID", impacts[1].GeneName)
	assert.Equal(t, "LOW", impacts[2].GeneName)
}

func TestAggregateGeneImpact_TieBreakDeterministic(t *testing.T) {
	tables := []Table{
		table(
			row("ZZZ", OutputRNASeq, breastTissue, 1.0),
			row("AAA", OutputRNASeq, breastTissue, 1.0),
			row("MMM", OutputRNASeq, breastTissue, 1.0),
		),
	}

	impacts := AggregateGeneImpact(tables, breastTissue, OutputRNASeq)
	require.Len(t, impacts, 3)
	assert.Equal(t, "AAA", impacts[0].GeneName)
	assert.Equal(t, "MMM", impacts[1].GeneName)
	assert.Equal(t, "ZZZ", impacts[2].GeneName)
}

func TestAggregateGeneImpact_Empty(t *testing.T) {
	assert.Empty(t, AggregateGeneImpact(nil, breastTissue, OutputRNASeq))
	assert.Empty(t, AggregateGeneImpact([]Table{}, breastTissue, OutputRNASeq))
	assert.Empty(t, AggregateGeneImpact([]Table{table()}, breastTissue, OutputRNASeq))
}

func TestAggregateGeneImpact_DoesNotMutateInput(t *testing.T) {
	rows := []Row{
		row("TP53", OutputRNASeq, breastTissue, -3.0),
		row("BRCA1", OutputRNASeq, breastTissue, 1.0),
	}
	tables := []Table{{Rows: rows}}

	AggregateGeneImpact(tables, breastTissue, OutputRNASeq)

	assert.Equal(t, -3.0, rows[0].RawScore)
	assert.Equal(t, "TP53", rows[0].GeneName)
}

func TestNormalizeBurden(t *testing.T) {
	impacts := []GeneImpact{
		{GeneName: "TP53", Impact: 4.0},
		{GeneName: "BRCA1", Impact: 1.0},
	}
	assert.InDelta(t, 2.5, NormalizeBurden(impacts), 1e-9)
}

func TestNormalizeBurden_Empty(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeBurden(nil))
	assert.Equal(t, 0.0, NormalizeBurden([]GeneImpact{}))
}

func TestTotalBurden(t *testing.T) {
	impacts := []GeneImpact{
		{GeneName: "TP53", Impact: 4.0},
		{GeneName: "BRCA1", Impact: 1.0},
	}
	assert.InDelta(t, 5.0, TotalBurden(impacts), 1e-9)
	assert.Equal(t, 0.0, TotalBurden(nil))
}
