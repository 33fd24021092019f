package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ppiankov/avatartag/internal/pipeline"
	"github.com/ppiankov/avatartag/internal/selection"
	"github.com/ppiankov/avatartag/internal/tui"
	"github.com/spf13/cobra"
)

var (
	labelVocab   string
	maxPolls     int
	pollInterval time.Duration
	loadDelay    time.Duration
	outJSON      string
	outMD        string
)

// labelCmd represents the label command
var labelCmd = &cobra.Command{
	Use:   "label <assets-file>",
	Short: "Tag a collection of avatar assets by category",
	Long: `Label loads asset ids (one per line) and opens an interactive session
for tagging each asset with a category of the chosen vocabulary.

Keys:
  →/l  ←/h   next / previous asset (wraps around)
  1-9        tag the current asset with that category
  space      show the label summary
  /          free-text command, e.g. "body athletic" or "hair shaved"
  q          quit and print the summary

Example:
  avatartag label hair-assets.txt
  avatartag label assets.txt --vocab body --json labels.json --md labels.md`,
	Args: cobra.ExactArgs(1),
	RunE: runLabel,
}

func init() {
	rootCmd.AddCommand(labelCmd)

	labelCmd.Flags().StringVar(&labelVocab, "vocab", "hair", "vocabulary to label with")
	labelCmd.Flags().IntVar(&maxPolls, "max-polls", 0, "max item-count polls while the assets load (default from config)")
	labelCmd.Flags().DurationVar(&pollInterval, "poll-interval", 0, "pause between polls (default from config)")
	labelCmd.Flags().DurationVar(&loadDelay, "load-delay", 0, "delay before the assets are read")
	labelCmd.Flags().StringVar(&outJSON, "json", "", "write the label summary as JSON")
	labelCmd.Flags().StringVar(&outMD, "md", "", "write the label summary as Markdown")
}

func runLabel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-polls") {
		cfg.Session.MaxPolls = maxPolls
	}
	if cmd.Flags().Changed("poll-interval") {
		cfg.Session.PollInterval = pollInterval
	}

	p, err := pipeline.NewPipeline(cfg, labelVocab, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loader := selection.FileLoader{Path: args[0], Delay: loadDelay}
	if err := p.Load(ctx, loader); err != nil {
		return fmt.Errorf("labeling session did not start: %w", err)
	}

	// The screen owns the terminal; log lines go to its log pane
	hook := tui.NewLogHook(200)
	logger.AddHook(hook)
	logger.SetOutput(io.Discard)

	program := tea.NewProgram(tui.New(p, hook), tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()

	logger.SetOutput(os.Stderr)
	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("run labeling screen: %w", runErr)
	}

	report, err := p.Export(outJSON, outMD)
	if err != nil {
		return err
	}

	fmt.Printf("Labeled %d assets (%d assignments)\n\n", report.ItemCount, report.Labeled())
	p.Renderer().RenderSummary(os.Stdout, report)
	return nil
}
