package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"archmap/internal/errors"
	"archmap/internal/symbols"
)

var (
	refsFromText bool
)

var refsCmd = &cobra.Command{
	Use:   "refs <symbol>",
	Short: "Find cross-file references to a symbol",
	Long: `Find whole-word references to a symbol across the scanned files,
including files related to the ones that mention it.

With --from-text the argument is treated as a line of source code and the
symbol is extracted from it (class name, called function, or variable).

Examples:
  archmap refs User
  archmap refs 'class UserService' --from-text
  archmap refs User --format=json`,
	Args: cobra.ExactArgs(1),
	Run:  runRefs,
}

func init() {
	refsCmd.Flags().BoolVar(&refsFromText, "from-text", false, "Extract the symbol from a line of source text")
	rootCmd.AddCommand(refsCmd)
}

func runRefs(cmd *cobra.Command, args []string) {
	start := time.Now()
	projectRoot := mustGetProjectRoot()
	logger := newLogger(projectRoot)

	symbol := args[0]
	if refsFromText {
		symbol = symbols.SymbolFromText(args[0])
		if symbol == "" {
			exitWithError(errors.New(errors.SymbolMissing, "no symbol found in the given text"))
		}
	}

	composer := mustGetBuiltComposer(projectRoot, logger)

	resp := &RefsResponseCLI{
		Symbol:     symbol,
		References: composer.CrossReferences(symbol),
	}

	output, err := FormatResponse(resp, outputFormat())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("Cross-reference query completed", map[string]interface{}{
		"symbol":   symbol,
		"duration": time.Since(start).Milliseconds(),
	})
}

// RefsResponseCLI contains cross-reference results for CLI output
type RefsResponseCLI struct {
	Symbol     string `json:"symbol"`
	References string `json:"references"`
}
