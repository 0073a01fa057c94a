package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avandersen/prosecheck/internal/checker"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Check prose from a file or stdin",
		Long: `Run a one-shot check over a file, or over stdin when no file is
given, and print the findings with byte offsets into the input.

Examples:
  prosecheck check draft.md
  cat draft.md | prosecheck check
  prosecheck check --json draft.md | jq '.errors'`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheckCmd,
	}

	cmd.Flags().Bool("json", false, "print the full result as JSON")
	cmd.Flags().Int("sentences-per-chunk", 0, "sentences per chunk (0 uses the configured value)")

	return cmd
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	perChunk, _ := cmd.Flags().GetInt("sentences-per-chunk")

	result, err := a.checker.CheckN(cmd.Context(), text, perChunk)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	for _, name := range result.Stats.ProviderFailures {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: provider %s failed on some chunks\n", name)
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

// readInput returns the text to check, from the named file or stdin
func readInput(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

func printResult(w io.Writer, result *checker.Result) {
	if len(result.Errors) == 0 {
		fmt.Fprintln(w, "No issues found.")
	} else {
		noun := "issues"
		if len(result.Errors) == 1 {
			noun = "issue"
		}
		fmt.Fprintf(w, "%d %s found:\n\n", len(result.Errors), noun)
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  [%s] %d-%d: %q", e.Type, e.Start, e.End, e.Word)
			if e.Suggestion != "" && !strings.EqualFold(e.Suggestion, e.Word) {
				fmt.Fprintf(w, " -> %q", e.Suggestion)
			}
			fmt.Fprintln(w)
			if e.Explanation != "" {
				fmt.Fprintf(w, "      %s\n", e.Explanation)
			}
		}
		fmt.Fprintln(w)
	}

	s := result.Stats
	fmt.Fprintf(w, "Checked %d chunk(s), %d entit%s masked, %dms\n",
		s.ChunksProcessed, s.EntitiesMasked, pluralY(s.EntitiesMasked), s.DurationMs)
	if s.ChunksFailed > 0 {
		fmt.Fprintf(w, "%d chunk(s) failed\n", s.ChunksFailed)
	}
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
