package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/sales-assistant/internal/catalog"
	"github.com/jonathan/sales-assistant/internal/extract"
	"github.com/jonathan/sales-assistant/internal/normalize"
	"github.com/jonathan/sales-assistant/internal/observability"
)

var extractCommand = &cobra.Command{
	Use:   "extract",
	Short: "Extract and persist every supported document under the data root",
	Long:  "Runs extraction and normalization for all discovered documents, writing structured records and CSV side-files under the output tree. Per-file failures are reported but do not stop the batch.",
	RunE:  runExtractCmd,
}

var extractWorkers int

func init() {
	extractCommand.Flags().IntVar(&extractWorkers, "workers", 4, "Number of concurrent extractions")
	rootCmd.AddCommand(extractCommand)
}

func runExtractCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}

	files, err := catalog.NewIndex(cfg.DataDir).Scan()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("no supported documents found")
		return nil
	}

	norm := normalize.New(cfg.ExtractedDataDir())
	printer := observability.NewPrinter(os.Stdout, os.Stderr)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(extractWorkers)

	results := make([]string, len(files))
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, format, err := extract.Extract(f.Path)
			if err != nil {
				printer.Warnf("%v", err)
				return nil
			}
			jsonPath, _, err := norm.Persist(norm.Normalize(content, f.Path, f.Category, format))
			if err != nil {
				printer.Warnf("%v", err)
				return nil
			}
			results[i] = jsonPath
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	extracted := 0
	for i, f := range files {
		if results[i] != "" {
			extracted++
			fmt.Printf("%s -> %s\n", f.Path, results[i])
		}
	}
	fmt.Printf("extracted %d of %d documents\n", extracted, len(files))
	return nil
}
