package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncoreg/oncoreg/internal/score"
	"github.com/oncoreg/oncoreg/internal/variant"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTable(v variant.Variant) *score.Table {
	return &score.Table{
		Variant: v,
		Rows: []score.Row{
			{
				GeneName:      "BRCA1",
				OutputType:    score.OutputRNASeq,
				TissueID:      "UBERON:0008367",
				BiosampleName: "breast epithelium",
				RawScore:      -1.5,
				QuantileScore: 0.9,
			},
			{
				GeneName:      "NBR2",
				OutputType:    score.OutputATAC,
				TissueID:      "UBERON:0002048",
				BiosampleName: "lung",
				RawScore:      0.25,
				QuantileScore: 0.4,
			},
		},
	}
}

func TestStore_OpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestStore_PutGet(t *testing.T) {
	s := openInMemory(t)
	v := variant.Variant{Chrom: "chr17", Pos: 43044000, Ref: "C", Alt: "T"}

	_, ok, err := s.Get(v)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(sampleTable(v)))

	got, ok, err := s.Get(v)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, v, got.Variant)
	require.Len(t, got.Rows, 2)

	byGene := map[string]score.Row{}
	for _, r := range got.Rows {
		byGene[r.GeneName] = r
	}
	assert.Equal(t, -1.5, byGene["BRCA1"].RawScore)
	assert.Equal(t, 0.9, byGene["BRCA1"].QuantileScore)
	assert.Equal(t, score.OutputATAC, byGene["NBR2"].OutputType)
	assert.Equal(t, "lung", byGene["NBR2"].BiosampleName)
}

func TestStore_PutIsIdempotent(t *testing.T) {
	s := openInMemory(t)
	v := variant.Variant{Chrom: "chr17", Pos: 43044000, Ref: "C", Alt: "T"}

	require.NoError(t, s.Put(sampleTable(v)))
	require.NoError(t, s.Put(sampleTable(v)))

	got, ok, err := s.Get(v)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Rows, 2, "re-putting the same variant must replace, not append")
}

func TestStore_GetOtherVariantMisses(t *testing.T) {
	s := openInMemory(t)
	v := variant.Variant{Chrom: "chr17", Pos: 43044000, Ref: "C", Alt: "T"}
	require.NoError(t, s.Put(sampleTable(v)))

	// Same position, different alt allele.
	_, ok, err := s.Get(variant.Variant{Chrom: "chr17", Pos: 43044000, Ref: "C", Alt: "G"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CountAndClear(t *testing.T) {
	s := openInMemory(t)
	v := variant.Variant{Chrom: "chr12", Pos: 25245351, Ref: "C", Alt: "A"}
	require.NoError(t, s.Put(sampleTable(v)))

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, s.Clear())

	n, err = s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}
