// Package genelist provides cancer gene list loading for restricting gene
// impact tables to known cancer genes.
package genelist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry holds gene-level annotations from a cancer gene list.
type Entry struct {
	HugoSymbol string
	GeneType   string // "ONCOGENE", "TSG", or "ONCOGENE,TSG"
}

// List maps Hugo Symbol to Entry.
type List map[string]*Entry

// Contains returns true if the gene is in the cancer gene list.
func (l List) Contains(gene string) bool {
	_, ok := l[gene]
	return ok
}

// Load loads an OncoKB-style cancerGeneList.tsv file.
// The TSV must have columns "Hugo Symbol" and "Gene Type" in the header.
func Load(path string) (List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cancer gene list: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// Read header to find column indices
	if !scanner.Scan() {
		return nil, fmt.Errorf("cancer gene list: empty file")
	}
	header := strings.Split(scanner.Text(), "\t")

	hugoIdx := -1
	geneTypeIdx := -1
	for i, col := range header {
		switch col {
		case "Hugo Symbol":
			hugoIdx = i
		case "Gene Type":
			geneTypeIdx = i
		}
	}
	if hugoIdx < 0 {
		return nil, fmt.Errorf("cancer gene list: missing 'Hugo Symbol' column")
	}
	if geneTypeIdx < 0 {
		return nil, fmt.Errorf("cancer gene list: missing 'Gene Type' column")
	}

	list := make(List)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= hugoIdx || len(fields) <= geneTypeIdx {
			continue
		}
		hugo := strings.TrimSpace(fields[hugoIdx])
		geneType := strings.TrimSpace(fields[geneTypeIdx])
		if hugo == "" {
			continue
		}
		list[hugo] = &Entry{
			HugoSymbol: hugo,
			GeneType:   geneType,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cancer gene list: %w", err)
	}

	return list, nil
}
