package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/oncoreg/oncoreg/internal/genelist"
	"github.com/oncoreg/oncoreg/internal/output"
	"github.com/oncoreg/oncoreg/internal/patient"
	"github.com/oncoreg/oncoreg/internal/predict"
	"github.com/oncoreg/oncoreg/internal/variant"
)

func newScoreCmd(verbose *bool) *cobra.Command {
	var (
		cancerType   string
		detailed     bool
		outputType   string
		geneListPath string
		workers      int
		outputFile   string
		noCache      bool
		cachePath    string
	)

	cmd := &cobra.Command{
		Use:   "score [flags] <variant>...",
		Short: "Compute the Regulatory Burden Index for a patient's variants",
		Long: `Score a patient's variants and compute the Regulatory Burden Index.

Variants are given as chrom:pos:ref:alt (or chrom:pos:ref>alt), with hg38
1-based positions. An API key for the prediction service is required; set it
with "oncoreg config set api.key <key>" or the ONCOREG_API_KEY environment
variable.`,
		Example: `  oncoreg score --cancer-type breast chr17:43044000:C:T chr17:43050000:G:A
  oncoreg score --cancer-type lung --detailed -o report.tsv chr12:25245351:C:A
  oncoreg score --cancer-type colon --gene-list cancerGeneList.tsv chr5:112839000:G:T`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(scoreOptions{
				variantArgs:  args,
				cancerType:   cancerType,
				detailed:     detailed,
				outputType:   outputType,
				geneListPath: geneListPath,
				workers:      workers,
				outputFile:   outputFile,
				noCache:      noCache,
				cachePath:    cachePath,
				verbose:      *verbose,
			})
		},
	}

	cmd.Flags().StringVarP(&cancerType, "cancer-type", "c", "breast", "Cancer type (see 'oncoreg tissues')")
	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "Report per-gene impacts and summary, not just the RBI")
	cmd.Flags().StringVar(&outputType, "output-type", "", "Assay output type to aggregate (default RNA_SEQ)")
	cmd.Flags().StringVar(&geneListPath, "gene-list", "", "Cancer gene list TSV; restrict impacts to listed genes")
	cmd.Flags().IntVar(&workers, "workers", 1, "Concurrent prediction calls")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not cache score tables locally")
	cmd.Flags().StringVar(&cachePath, "cache", "", "Score cache path (default: ~/.oncoreg/scores.duckdb)")

	return cmd
}

type scoreOptions struct {
	variantArgs  []string
	cancerType   string
	detailed     bool
	outputType   string
	geneListPath string
	workers      int
	outputFile   string
	noCache      bool
	cachePath    string
	verbose      bool
}

func runScore(opts scoreOptions) error {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	variants := make([]variant.Variant, 0, len(opts.variantArgs))
	for _, arg := range opts.variantArgs {
		v, err := variant.Parse(arg)
		if err != nil {
			return err
		}
		variants = append(variants, v)
	}

	client, err := predict.NewClient(viper.GetString("api.key"))
	if err != nil {
		return err
	}

	var predictor predict.Predictor = client
	if !opts.noCache {
		path := opts.cachePath
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("cannot determine home directory: %w", err)
			}
			path = filepath.Join(home, ".oncoreg", "scores.duckdb")
		}
		store, err := predict.OpenStore(path)
		if err != nil {
			return fmt.Errorf("open score cache: %w", err)
		}
		defer store.Close()

		caching := predict.NewCachingPredictor(client, store)
		caching.SetLogger(logger)
		predictor = caching
	}

	scorerOpts := []patient.Option{
		patient.WithLogger(logger),
		patient.WithWorkers(opts.workers),
	}
	if opts.outputType != "" {
		scorerOpts = append(scorerOpts, patient.WithOutputType(opts.outputType))
	}
	if opts.geneListPath != "" {
		genes, err := genelist.Load(opts.geneListPath)
		if err != nil {
			return err
		}
		logger.Info("loaded cancer gene list", zap.Int("genes", len(genes)))
		scorerOpts = append(scorerOpts, patient.WithGeneList(genes))
	}

	scorer, err := patient.NewScorer(predictor, scorerOpts...)
	if err != nil {
		return err
	}

	report, err := scorer.ScoreReport(context.Background(), variants, opts.cancerType)
	if err != nil {
		return err
	}

	out := os.Stdout
	if opts.outputFile != "" {
		out, err = os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}

	if !opts.detailed {
		fmt.Fprintf(out, "%.6f\n", report.RBI)
		return nil
	}

	tw := output.NewTabWriter(out)
	if err := tw.WriteAll(report.GeneImpacts); err != nil {
		return fmt.Errorf("write gene impacts: %w", err)
	}
	fmt.Fprintln(out)
	output.WriteSummary(out, report)

	return nil
}
