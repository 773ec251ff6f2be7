package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/sales-assistant/internal/prompt"
)

var scriptCommand = &cobra.Command{
	Use:   "script",
	Short: "Generate a sales pitch script",
	RunE:  runScriptCmd,
}

var (
	scriptProduct  string
	scriptCustomer string
	scriptTone     string
)

func init() {
	scriptCommand.Flags().StringVar(&scriptProduct, "product", "", "Product document path (default: latest in data/product)")
	scriptCommand.Flags().StringVar(&scriptCustomer, "customer", "", "Customer profile document path (optional)")
	scriptCommand.Flags().StringVar(&scriptTone, "tone", "professional", "Tone: professional, friendly, or consultative")
	rootCmd.AddCommand(scriptCommand)
}

func runScriptCmd(cmd *cobra.Command, _ []string) error {
	return runGenerate(cmd.Context(), prompt.ModeScript, map[prompt.Role]string{
		prompt.RoleProduct:  scriptProduct,
		prompt.RoleCustomer: scriptCustomer,
	}, prompt.Options{Tone: scriptTone})
}
