// Package variant defines the genomic variant input type and its validation.
package variant

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant represents a single genomic variant to be scored.
type Variant struct {
	Chrom string // Chromosome name (e.g., "17", "chr17")
	Pos   int64  // 1-based genomic position (hg38)
	Ref   string // Reference allele
	Alt   string // Alternate allele
}

// InvalidVariantError is returned when a variant fails validation.
// It identifies the offending variant and what is wrong with it.
type InvalidVariantError struct {
	Variant Variant
	Reason  string
}

func (e *InvalidVariantError) Error() string {
	return fmt.Sprintf("invalid variant %s: %s", e.Variant, e.Reason)
}

// String formats the variant as "chrom:pos:ref>alt".
func (v Variant) String() string {
	return fmt.Sprintf("%s:%d:%s>%s", v.Chrom, v.Pos, v.Ref, v.Alt)
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}

// Validate checks that the variant is well-formed: non-empty chromosome,
// positive position, and non-empty ACGTN alleles.
func (v Variant) Validate() error {
	if v.Chrom == "" {
		return &InvalidVariantError{Variant: v, Reason: "empty chromosome"}
	}
	if v.Pos <= 0 {
		return &InvalidVariantError{Variant: v, Reason: "position must be positive"}
	}
	if v.Ref == "" {
		return &InvalidVariantError{Variant: v, Reason: "empty reference allele"}
	}
	if v.Alt == "" {
		return &InvalidVariantError{Variant: v, Reason: "empty alternate allele"}
	}
	if !validBases(v.Ref) {
		return &InvalidVariantError{Variant: v, Reason: fmt.Sprintf("reference allele %q contains non-ACGTN bases", v.Ref)}
	}
	if !validBases(v.Alt) {
		return &InvalidVariantError{Variant: v, Reason: fmt.Sprintf("alternate allele %q contains non-ACGTN bases", v.Alt)}
	}
	return nil
}

func validBases(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'N', 'a', 'c', 'g', 't', 'n':
		default:
			return false
		}
	}
	return true
}

// Parse parses a variant from "chrom:pos:ref:alt" or "chrom:pos:ref>alt"
// notation (e.g., "chr17:43044000:C:T"). The parsed variant is validated.
func Parse(s string) (Variant, error) {
	fields := strings.Split(s, ":")
	if len(fields) == 3 {
		// "chrom:pos:ref>alt" form
		if ref, alt, ok := strings.Cut(fields[2], ">"); ok {
			fields = []string{fields[0], fields[1], ref, alt}
		}
	}
	if len(fields) != 4 {
		return Variant{}, fmt.Errorf("cannot parse variant %q: want chrom:pos:ref:alt", s)
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Variant{}, fmt.Errorf("cannot parse variant %q: bad position %q", s, fields[1])
	}

	v := Variant{
		Chrom: fields[0],
		Pos:   pos,
		Ref:   strings.ToUpper(fields[2]),
		Alt:   strings.ToUpper(fields[3]),
	}
	if err := v.Validate(); err != nil {
		return Variant{}, err
	}
	return v, nil
}
