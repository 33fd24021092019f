package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/ppiankov/avatartag/internal/classify"
	"github.com/ppiankov/avatartag/internal/model"
	"github.com/ppiankov/avatartag/internal/worker"
)

// Renderer writes label summaries and classification results
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the summary as indented JSON
func (r *Renderer) RenderJSON(summary model.LabelSummary, path string) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes the summary as a Markdown document
func (r *Renderer) RenderMarkdown(summary model.LabelSummary, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(summary)), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// Markdown formats the summary as Markdown
func (r *Renderer) Markdown(summary model.LabelSummary) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Label Summary: %s\n\n", summary.Vocabulary)
	fmt.Fprintf(&sb, "- Items: %d\n", summary.ItemCount)
	fmt.Fprintf(&sb, "- Assignments: %d\n", summary.Labeled())
	fmt.Fprintf(&sb, "- Generated: %s\n\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	sb.WriteString("| Index | Category | Count | Items |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, b := range summary.Buckets {
		fmt.Fprintf(&sb, "| %d | %s | %d | %s |\n", b.Index, b.Name, len(b.Items), joinInts(b.Items))
	}

	if r.includeFooter {
		sb.WriteString("\n---\n_Items may appear more than once and under several categories; ")
		sb.WriteString("assignments are recorded exactly as entered._\n")
	}

	return sb.String()
}

// SummaryLines formats one line per bucket, e.g. "SHORT:  1, 4"
func SummaryLines(summary model.LabelSummary) []string {
	width := 0
	for _, b := range summary.Buckets {
		if len(b.Name) > width {
			width = len(b.Name)
		}
	}

	lines := make([]string, 0, len(summary.Buckets))
	for _, b := range summary.Buckets {
		label := strings.ToUpper(b.Name) + ":"
		line := fmt.Sprintf("%-*s %s", width+2, label, joinInts(b.Items))
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return lines
}

// RenderSummary prints the bucket lines to w
func (r *Renderer) RenderSummary(w io.Writer, summary model.LabelSummary) {
	for _, line := range SummaryLines(summary) {
		fmt.Fprintln(w, line)
	}
}

// RenderResults prints batch classification results as a table
func (r *Renderer) RenderResults(w io.Writer, vocab model.Vocabulary, results []*worker.ClassifyResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Line", "Text", "Index", "Category", "Method", "Term"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, res := range results {
		index, category := "-", "-"
		if res.Result.Resolved() {
			index = strconv.Itoa(res.Result.Index)
			category = vocab.CategoryName(res.Result.Index)
		}
		method := string(res.Result.Method)
		if res.Error != nil {
			method = "error: " + res.Error.Error()
		}
		table.Append([]string{
			strconv.Itoa(res.Command.Line),
			res.Command.Text,
			index,
			category,
			method,
			res.Result.Term,
		})
	}

	table.Render()
}

// RenderVocabulary prints the rules of a vocabulary as a table
func (r *Renderer) RenderVocabulary(w io.Writer, vocab model.Vocabulary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Priority", "Index", "Name", "Fallback", "Keywords"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for i, rule := range vocab.Rules() {
		table.Append([]string{
			strconv.Itoa(i + 1),
			strconv.Itoa(rule.Index),
			rule.Name,
			rule.Fallback,
			strings.Join(rule.Keywords, ", "),
		})
	}

	table.Render()
}

// ResultsJSON encodes batch results for machine consumption
func ResultsJSON(results []*worker.ClassifyResult) ([]byte, error) {
	type row struct {
		Line   int             `json:"line"`
		Text   string          `json:"text"`
		Result classify.Result `json:"result"`
		Cached bool            `json:"cached,omitempty"`
		Error  string          `json:"error,omitempty"`
	}

	rows := make([]row, 0, len(results))
	for _, res := range results {
		r := row{
			Line:   res.Command.Line,
			Text:   res.Command.Text,
			Result: res.Result,
			Cached: res.Cached,
		}
		if res.Error != nil {
			r.Error = res.Error.Error()
		}
		rows = append(rows, r)
	}

	return json.MarshalIndent(rows, "", "  ")
}

func joinInts(items []int) string {
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
