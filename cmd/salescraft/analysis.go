package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/sales-assistant/internal/prompt"
)

var analysisCommand = &cobra.Command{
	Use:   "analysis",
	Short: "Generate a product analysis report",
	Long:  "Analyzes the product document, optionally against a competitor document. Without --product the most recent product document under the data root is used.",
	RunE:  runAnalysisCmd,
}

var (
	analysisProduct    string
	analysisCompetitor string
)

func init() {
	analysisCommand.Flags().StringVar(&analysisProduct, "product", "", "Product document path (default: latest in data/product)")
	analysisCommand.Flags().StringVar(&analysisCompetitor, "competitor", "", "Competitor document path (optional)")
	rootCmd.AddCommand(analysisCommand)
}

func runAnalysisCmd(cmd *cobra.Command, _ []string) error {
	return runGenerate(cmd.Context(), prompt.ModeAnalysis, map[prompt.Role]string{
		prompt.RoleProduct:    analysisProduct,
		prompt.RoleCompetitor: analysisCompetitor,
	}, prompt.Options{})
}
