package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/avatartag/internal/classify"
	"github.com/ppiankov/avatartag/internal/model"
	"github.com/ppiankov/avatartag/internal/selection"
	"github.com/ppiankov/avatartag/internal/session"
	"github.com/ppiankov/avatartag/internal/worker"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Session.PollInterval = time.Millisecond
	cfg.Session.MaxPolls = 2000
	return cfg
}

func staticLoader(assets ...string) selection.Loader {
	return selection.LoaderFunc(func(ctx context.Context) ([]string, error) {
		return assets, nil
	})
}

func TestNewPipeline_UnknownTarget(t *testing.T) {
	_, err := NewPipeline(testConfig(), "shoes", nil)
	if !errors.Is(err, ErrUnknownVocabulary) {
		t.Fatalf("Expected ErrUnknownVocabulary, got %v", err)
	}
}

func TestPipeline_Load(t *testing.T) {
	p, err := NewPipeline(testConfig(), model.VocabularyHair, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	if err := p.Load(context.Background(), staticLoader("hair-01", "hair-02", "hair-03")); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if p.Session().State() != session.StateReady {
		t.Errorf("Expected ready session, got %s", p.Session().State())
	}
	if p.Session().ItemCount() != 3 {
		t.Errorf("Expected 3 items, got %d", p.Session().ItemCount())
	}

	hair, _ := p.Element(model.VocabularyHair)
	if hair.Selected() != 0 {
		t.Errorf("Expected first item shown, got %d", hair.Selected())
	}

	body, _ := p.Element(model.VocabularyBody)
	if got := body.Assets(); len(got) != 4 || got[2] != "muscular" {
		t.Errorf("Unexpected body assets: %v", got)
	}
	if body.Listeners() != 1 {
		t.Errorf("Expected one watcher, got %d", body.Listeners())
	}

	p.Close()
	p.Close()
	if body.Listeners() != 0 {
		t.Errorf("Expected watchers released, got %d", body.Listeners())
	}
}

func TestPipeline_LoadFailure(t *testing.T) {
	p, _ := NewPipeline(testConfig(), model.VocabularyHair, nil)
	boom := errors.New("catalog unavailable")

	err := p.Load(context.Background(), selection.LoaderFunc(func(ctx context.Context) ([]string, error) {
		return nil, boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("Expected load error, got %v", err)
	}
	if p.Session().State() != session.StateFailed {
		t.Errorf("Expected failed session, got %s", p.Session().State())
	}
}

func TestPipeline_LoadNeverArrives(t *testing.T) {
	cfg := testConfig()
	cfg.Session.MaxPolls = 5

	p, _ := NewPipeline(cfg, model.VocabularyHair, nil)
	err := p.Load(context.Background(), selection.LoaderFunc(func(ctx context.Context) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	if !errors.Is(err, session.ErrTimedOut) {
		t.Fatalf("Expected timeout, got %v", err)
	}
}

func TestPipeline_LoadEmpty(t *testing.T) {
	p, _ := NewPipeline(testConfig(), model.VocabularyHair, nil)

	start := time.Now()
	err := p.Load(context.Background(), staticLoader())
	if !errors.Is(err, ErrNoAssets) {
		t.Fatalf("Expected ErrNoAssets, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Empty load took %s", elapsed)
	}
	if p.Session().State() != session.StateFailed {
		t.Errorf("Expected failed session, got %s", p.Session().State())
	}
}

func TestPipeline_LoadZeroPollInterval(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Session.PollInterval = 0

	p, _ := NewPipeline(cfg, model.VocabularyHair, nil)
	err := p.Load(context.Background(), selection.LoaderFunc(func(ctx context.Context) ([]string, error) {
		time.Sleep(20 * time.Millisecond)
		return []string{"a", "b"}, nil
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Session().Polls() < 2 {
		t.Errorf("Expected several paced polls, got %d", p.Session().Polls())
	}
}

func TestPipeline_Command(t *testing.T) {
	p, _ := NewPipeline(testConfig(), model.VocabularyHair, nil)
	if err := p.Load(context.Background(), staticLoader("a", "b", "c", "d", "e")); err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		line      string
		wantVocab string
		wantIndex int
		wantAsset string
	}{
		{"body I'm very muscular", model.VocabularyBody, 2, "muscular"},
		{"BODY 4", model.VocabularyBody, 3, "plus"},
		{"hair long and wavy", model.VocabularyHair, 2, "c"},
		{"shaved head", model.VocabularyHair, 3, "d"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res, err := p.Command(tt.line)
			if err != nil {
				t.Fatalf("Command: %v", err)
			}
			if res.Vocabulary != tt.wantVocab {
				t.Errorf("Vocabulary = %s, want %s", res.Vocabulary, tt.wantVocab)
			}
			if res.Result.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", res.Result.Index, tt.wantIndex)
			}
			if res.Asset != tt.wantAsset {
				t.Errorf("Asset = %s, want %s", res.Asset, tt.wantAsset)
			}

			e, _ := p.Element(tt.wantVocab)
			if e.Selected() != tt.wantIndex {
				t.Errorf("Selected = %d, want %d", e.Selected(), tt.wantIndex)
			}
		})
	}
}

func TestPipeline_CommandUnresolved(t *testing.T) {
	p, _ := NewPipeline(testConfig(), model.VocabularyHair, nil)
	if err := p.Load(context.Background(), staticLoader("a", "b")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	body, _ := p.Element(model.VocabularyBody)
	_ = body.Select(1)

	res, err := p.Command("body hmm, not sure")
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if res.Result.Resolved() {
		t.Errorf("Expected unresolved, got %+v", res.Result)
	}
	if body.Selected() != 1 {
		t.Errorf("Selection changed to %d", body.Selected())
	}
}

func TestPipeline_Export(t *testing.T) {
	p, _ := NewPipeline(testConfig(), model.VocabularyHair, nil)
	if err := p.Load(context.Background(), staticLoader("a", "b", "c")); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := p.Session()
	_, _ = s.Next()
	_ = s.Label(1)
	_, _ = s.Next()
	_ = s.Label(1)

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "labels.json")
	mdPath := filepath.Join(dir, "labels.md")

	report, err := p.Export(jsonPath, mdPath)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if report.Labeled() != 2 {
		t.Errorf("Expected 2 assignments, got %d", report.Labeled())
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read JSON: %v", err)
	}
	var decoded model.LabelSummary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	medium, _ := decoded.Bucket(1)
	if len(medium.Items) != 2 || medium.Items[0] != 1 || medium.Items[1] != 2 {
		t.Errorf("Unexpected medium bucket: %v", medium.Items)
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	if !strings.Contains(string(md), "| 1 | medium | 2 | 1, 2 |") {
		t.Errorf("Markdown missing medium row:\n%s", md)
	}
}

func TestSummaryLines(t *testing.T) {
	summary := model.LabelSummary{
		Vocabulary: "hair",
		Buckets: []model.LabelBucket{
			{Index: 0, Name: "short", Items: []int{}},
			{Index: 1, Name: "medium", Items: []int{1, 2}},
		},
	}

	lines := SummaryLines(summary)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "SHORT:" {
		t.Errorf("lines[0] = %q", lines[0])
	}
	if lines[1] != "MEDIUM:  1, 2" {
		t.Errorf("lines[1] = %q", lines[1])
	}
}

func TestRenderer_RenderResults(t *testing.T) {
	vocab := model.DefaultBodyShape()
	results := []*worker.ClassifyResult{
		{
			Command: worker.Command{Line: 1, Text: "pretty big"},
			Result:  classify.Result{Index: 3, Method: classify.MethodKeyword, Term: "big"},
		},
		{
			Command: worker.Command{Line: 2, Text: "hmm"},
			Result:  classify.Result{Index: classify.Unresolved, Method: classify.MethodNone},
		},
	}

	var buf bytes.Buffer
	NewRenderer(false).RenderResults(&buf, vocab, results)
	out := buf.String()

	for _, want := range []string{"CATEGORY", "pretty big", "plus", "keyword", "none"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestResultsJSON(t *testing.T) {
	data, err := ResultsJSON([]*worker.ClassifyResult{
		{
			Command: worker.Command{Line: 3, Text: "slim"},
			Result:  classify.Result{Index: 0, Method: classify.MethodKeyword, Term: "slim"},
			Cached:  true,
		},
	})
	if err != nil {
		t.Fatalf("ResultsJSON: %v", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0]["line"].(float64) != 3 || rows[0]["cached"] != true {
		t.Errorf("Unexpected rows: %v", rows)
	}
}
