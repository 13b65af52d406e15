// Package tissue maps cancer-type labels to tissue ontology identifiers.
package tissue

import (
	"fmt"
	"sort"
	"strings"
)

// tissueMap maps user-friendly cancer types to UBERON ontology CURIEs.
// The identifiers match the biosample ontology vocabulary used by the
// prediction service, so resolved values can be compared directly against
// score-table tissue IDs.
var tissueMap = map[string]string{
	"breast":   "UBERON:0008367", // breast epithelium
	"lung":     "UBERON:0002048",
	"colon":    "UBERON:0001157",
	"prostate": "UBERON:0002367", // prostate gland
	"ovarian":  "UBERON:0000992", // ovary
}

// UnsupportedCancerTypeError is returned when a cancer-type label has no
// tissue mapping. It carries the supported labels so callers can self-correct.
type UnsupportedCancerTypeError struct {
	CancerType string
	Supported  []string
}

func (e *UnsupportedCancerTypeError) Error() string {
	return fmt.Sprintf("cancer type %q not supported; supported types: %s",
		e.CancerType, strings.Join(e.Supported, ", "))
}

// Resolve returns the tissue ontology CURIE for a cancer-type label.
// Matching is case-insensitive.
func Resolve(cancerType string) (string, error) {
	ontology, ok := tissueMap[strings.ToLower(cancerType)]
	if !ok {
		return "", &UnsupportedCancerTypeError{
			CancerType: cancerType,
			Supported:  SupportedTypes(),
		}
	}
	return ontology, nil
}

// SupportedTypes returns all supported cancer-type labels in sorted order.
func SupportedTypes() []string {
	types := make([]string, 0, len(tissueMap))
	for t := range tissueMap {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// TissueID returns the ontology CURIE for a label without error detail,
// for display purposes. Returns "" if the label is unknown.
func TissueID(cancerType string) string {
	return tissueMap[strings.ToLower(cancerType)]
}
