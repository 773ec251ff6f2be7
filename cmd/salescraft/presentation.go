package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/sales-assistant/internal/prompt"
)

var presentationCommand = &cobra.Command{
	Use:   "presentation",
	Short: "Generate a customer presentation outline",
	RunE:  runPresentationCmd,
}

var (
	presentationProduct  string
	presentationCustomer string
	presentationType     string
)

func init() {
	presentationCommand.Flags().StringVar(&presentationProduct, "product", "", "Product document path (default: latest in data/product)")
	presentationCommand.Flags().StringVar(&presentationCustomer, "customer", "", "Customer document path (default: latest in data/customer)")
	presentationCommand.Flags().StringVar(&presentationType, "type", "standard", "Presentation type: standard, detailed, or executive")
	rootCmd.AddCommand(presentationCommand)
}

func runPresentationCmd(cmd *cobra.Command, _ []string) error {
	return runGenerate(cmd.Context(), prompt.ModePresentation, map[prompt.Role]string{
		prompt.RoleProduct:  presentationProduct,
		prompt.RoleCustomer: presentationCustomer,
	}, prompt.Options{PresentationType: presentationType})
}
