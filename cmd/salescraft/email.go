package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/sales-assistant/internal/prompt"
)

var emailCommand = &cobra.Command{
	Use:   "email",
	Short: "Generate a sales email",
	RunE:  runEmailCmd,
}

var (
	emailProduct   string
	emailRecipient string
	emailPurpose   string
)

func init() {
	emailCommand.Flags().StringVar(&emailProduct, "product", "", "Product document path (default: latest in data/product)")
	emailCommand.Flags().StringVar(&emailRecipient, "recipient", "", "Recipient profile document path (optional)")
	emailCommand.Flags().StringVar(&emailPurpose, "purpose", "introduction", "Purpose: introduction, follow_up, proposal, or thank_you")
	rootCmd.AddCommand(emailCommand)
}

func runEmailCmd(cmd *cobra.Command, _ []string) error {
	return runGenerate(cmd.Context(), prompt.ModeEmail, map[prompt.Role]string{
		prompt.RoleProduct:   emailProduct,
		prompt.RoleRecipient: emailRecipient,
	}, prompt.Options{EmailPurpose: emailPurpose})
}
