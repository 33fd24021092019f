package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/ppiankov/avatartag/internal/pipeline"
	"github.com/spf13/cobra"
)

// vocabCmd represents the vocab command
var vocabCmd = &cobra.Command{
	Use:   "vocab [name]",
	Short: "List vocabularies or show the rules of one",
	Long: `Without arguments, list the configured vocabularies.
With a name, show its categories in priority order.

Example:
  avatartag vocab
  avatartag vocab hair`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVocab,
}

func init() {
	rootCmd.AddCommand(vocabCmd)
}

func runVocab(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		for _, name := range cfg.VocabularyNames() {
			vocab, err := cfg.Vocabulary(name)
			if err != nil {
				return err
			}
			fmt.Printf("%s  %d categories\n", color.CyanString("%-8s", name), vocab.Len())
		}
		return nil
	}

	vocab, err := cfg.Vocabulary(args[0])
	if err != nil {
		return err
	}

	pipeline.NewRenderer(false).RenderVocabulary(os.Stdout, vocab)
	return nil
}
