package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/sales-assistant/internal/catalog"
	"github.com/jonathan/sales-assistant/internal/observability"
)

var filesCommand = &cobra.Command{
	Use:   "files",
	Short: "List discovered documents by category",
	RunE:  runFilesCmd,
}

var organizeCommand = &cobra.Command{
	Use:   "organize",
	Short: "Move classified documents into their category folder",
	Long:  "Scans the data root and files every classified document under its category folder. Dry run by default; pass --apply to move files.",
	RunE:  runOrganizeCmd,
}

var organizeApply bool

func init() {
	organizeCommand.Flags().BoolVar(&organizeApply, "apply", false, "Actually move files instead of reporting planned moves")
	rootCmd.AddCommand(filesCommand)
	rootCmd.AddCommand(organizeCommand)
}

func runFilesCmd(_ *cobra.Command, _ []string) error {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}

	index := catalog.NewIndex(cfg.DataDir)
	grouped, err := index.ByCategory()
	if err != nil {
		return err
	}
	observability.NewPrinter(os.Stdout, os.Stderr).FileSummary(grouped)
	return nil
}

func runOrganizeCmd(_ *cobra.Command, _ []string) error {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}

	index := catalog.NewIndex(cfg.DataDir)
	summary, err := index.Organize(!organizeApply)
	if err != nil {
		return err
	}

	for _, move := range summary.Moved {
		fmt.Println(move)
	}
	fmt.Printf("moved: %d, already organized: %d, unclassified: %d\n",
		len(summary.Moved), len(summary.AlreadyOrganized), len(summary.Unclassified))
	if !organizeApply && len(summary.Moved) > 0 {
		fmt.Println("dry run; pass --apply to move files")
	}
	return nil
}
