package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/sales-assistant/internal/crypto"
	"github.com/jonathan/sales-assistant/internal/extract"
)

var encryptCommand = &cobra.Command{
	Use:   "encrypt [path]",
	Short: "Encrypt a document or a whole directory",
	Long:  "Encrypts the file at path with a key derived from the password. With --dir, encrypts every supported document under the directory instead.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEncryptCmd,
}

var decryptCommand = &cobra.Command{
	Use:   "decrypt <path>",
	Short: "Decrypt an encrypted document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecryptCmd,
}

var (
	encryptDir      string
	encryptOutput   string
	encryptPassword string
	decryptOutput   string
	decryptPassword string
)

func init() {
	encryptCommand.Flags().StringVar(&encryptDir, "dir", "", "Encrypt all supported documents under this directory")
	encryptCommand.Flags().StringVarP(&encryptOutput, "output", "o", "", "Output path (default: input path + .encrypted)")
	encryptCommand.Flags().StringVar(&encryptPassword, "password", "", "Encryption password (defaults to ENCRYPTION_PASSWORD env var)")
	decryptCommand.Flags().StringVarP(&decryptOutput, "output", "o", "", "Output path (default: input path without .encrypted)")
	decryptCommand.Flags().StringVar(&decryptPassword, "password", "", "Encryption password (defaults to ENCRYPTION_PASSWORD env var)")
	rootCmd.AddCommand(encryptCommand)
	rootCmd.AddCommand(decryptCommand)
}

func resolvePassword(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("ENCRYPTION_PASSWORD"); env != "" {
		return env, nil
	}
	return "", usageErrorf("password required: set ENCRYPTION_PASSWORD or pass --password")
}

func runEncryptCmd(_ *cobra.Command, args []string) error {
	password, err := resolvePassword(encryptPassword)
	if err != nil {
		return err
	}
	cipher := crypto.New(password)

	if encryptDir != "" {
		count, err := cipher.EncryptDirectory(encryptDir, extract.Extensions())
		if err != nil {
			return err
		}
		fmt.Printf("encrypted %d files under %s\n", count, encryptDir)
		return nil
	}

	if len(args) == 0 {
		return usageErrorf("a file path or --dir is required")
	}
	out, err := cipher.EncryptFile(args[0], encryptOutput)
	if err != nil {
		return err
	}
	fmt.Printf("encrypted: %s\n", out)
	return nil
}

func runDecryptCmd(_ *cobra.Command, args []string) error {
	password, err := resolvePassword(decryptPassword)
	if err != nil {
		return err
	}
	out, err := crypto.New(password).DecryptFile(args[0], decryptOutput)
	if err != nil {
		return err
	}
	fmt.Printf("decrypted: %s\n", out)
	return nil
}
