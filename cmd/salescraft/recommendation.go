package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/sales-assistant/internal/prompt"
)

var recommendationCommand = &cobra.Command{
	Use:   "recommendation",
	Short: "Generate a customer product recommendation",
	RunE:  runRecommendationCmd,
}

var (
	recommendationCustomer string
	recommendationCatalog  string
)

func init() {
	recommendationCommand.Flags().StringVar(&recommendationCustomer, "customer", "", "Customer document path (default: latest in data/customer)")
	recommendationCommand.Flags().StringVar(&recommendationCatalog, "catalog", "", "Product catalog document path (default: latest in data/catalog)")
	rootCmd.AddCommand(recommendationCommand)
}

func runRecommendationCmd(cmd *cobra.Command, _ []string) error {
	return runGenerate(cmd.Context(), prompt.ModeRecommendation, map[prompt.Role]string{
		prompt.RoleCustomer: recommendationCustomer,
		prompt.RoleCatalog:  recommendationCatalog,
	}, prompt.Options{})
}
