// Package main provides the salescraft CLI: local office-document
// extraction, classification, and LLM-backed sales material generation.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/sales-assistant/internal/prompt"
)

var rootCmd = &cobra.Command{
	Use:           "salescraft",
	Short:         "Insurance sales assistant",
	Long:          "salescraft extracts local office documents (xlsx/docx/pptx/pdf), classifies them by business role, and generates sales materials through an LLM completion service. Documents are parsed locally; only extracted text reaches the model.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagConfigPath string
	flagDataDir    string
	flagOutputDir  string
	flagAPIKey     string
	flagModel      string
	flagVerbose    bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	pf.StringVar(&flagDataDir, "data-dir", "", "Root directory of input documents (default: data)")
	pf.StringVar(&flagOutputDir, "output-dir", "", "Root directory for generated artifacts (default: output)")
	pf.StringVar(&flagAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	pf.StringVar(&flagModel, "model", "", "Completion model name")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Print detailed progress information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps failures to the documented codes: 2 for validation
// problems, 1 for everything else.
func exitCode(err error) int {
	var missing *prompt.MissingInputError
	var assembly *prompt.AssemblyError
	var usage *usageError
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &missing) || errors.As(err, &assembly) ||
		errors.As(err, &usage) || errors.As(err, &fieldErrs) {
		return 2
	}
	return 1
}

// usageError marks caller mistakes (bad flags, missing credential) that
// should exit with the validation code.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}
