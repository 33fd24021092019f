package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/ppiankov/avatartag/internal/classify"
	"github.com/spf13/cobra"
)

var (
	classifyJSON   bool
	classifyStrict bool
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <vocabulary> <text...>",
	Short: "Map a free-text description to a category",
	Long: `Classify maps a description to a category index of the named vocabulary.

Example:
  avatartag classify body "I'm pretty athletic"
  avatartag classify hair shaved
  avatartag classify hair 2 --json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "print the result as JSON")
	classifyCmd.Flags().BoolVar(&classifyStrict, "strict", false, "fail when the text cannot be understood")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	vocab, err := cfg.Vocabulary(args[0])
	if err != nil {
		return err
	}

	text := strings.Join(args[1:], " ")
	c := classify.New(vocab, logger)

	if classifyStrict {
		if _, err := c.Resolve(text); err != nil {
			return err
		}
	}

	res := c.Classify(text)

	if classifyJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	if !res.Resolved() {
		fmt.Fprintf(out, "%s could not understand %s from '%s'\n", color.YellowString("?"), vocab.Name(), text)
		return nil
	}

	fmt.Fprintf(out, "%s %s → %s (index %d, %s %q)\n",
		color.GreenString("✓"),
		vocab.Name(),
		color.CyanString(vocab.CategoryName(res.Index)),
		res.Index,
		res.Method,
		res.Term,
	)
	return nil
}
