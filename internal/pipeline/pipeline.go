package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/avatartag/internal/classify"
	"github.com/ppiankov/avatartag/internal/model"
	"github.com/ppiankov/avatartag/internal/selection"
	"github.com/ppiankov/avatartag/internal/session"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownVocabulary is returned for a command naming no configured vocabulary
	ErrUnknownVocabulary = errors.New("unknown vocabulary")

	// ErrNoAssets is returned by Load when the loader succeeds with nothing to label
	ErrNoAssets = errors.New("no assets loaded")
)

// Pipeline wires the labeling session to the avatar selection elements.
//
// The target element holds the assets being labeled; the session cursor
// selects within it. Every other configured vocabulary gets an element whose
// assets are its category names, driven by free-text commands.
type Pipeline struct {
	config      *model.Config
	target      string
	log         logrus.FieldLogger
	classifiers map[string]*classify.Classifier
	elements    map[string]*selection.Element
	session     *session.Session
	renderer    *Renderer
	watches     []*selection.Registration
}

// CommandResult describes one applied free-text command
type CommandResult struct {
	Vocabulary string
	Text       string
	Result     classify.Result
	Asset      string
}

// NewPipeline builds classifiers and elements for every configured vocabulary
// and a session labeling the target vocabulary
func NewPipeline(cfg *model.Config, target string, log logrus.FieldLogger) (*Pipeline, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	p := &Pipeline{
		config:      cfg,
		target:      target,
		log:         log,
		classifiers: make(map[string]*classify.Classifier),
		elements:    make(map[string]*selection.Element),
		renderer:    NewRenderer(true),
	}

	for _, name := range cfg.VocabularyNames() {
		vocab, err := cfg.Vocabulary(name)
		if err != nil {
			return nil, err
		}
		element := selection.NewElement(strings.ToUpper(name))
		p.classifiers[name] = classify.New(vocab, log)
		p.elements[name] = element
		p.watches = append(p.watches, element.Subscribe(func(index int, asset string) {
			log.WithField("element", element.Name()).Debugf("selected %d: %s", index, asset)
		}))
	}

	if _, ok := p.classifiers[target]; !ok {
		return nil, fmt.Errorf("target %q: %w", target, ErrUnknownVocabulary)
	}

	element := p.elements[target]
	p.session = session.New(p.classifiers[target].Vocabulary(), func(index int) {
		if err := element.Select(index); err != nil {
			log.WithError(err).Warn("could not show item")
		}
	}, log)

	return p, nil
}

// Load fills the target element from loader and waits for the session to
// become ready. The remaining elements are filled with their category names.
func (p *Pipeline) Load(ctx context.Context, loader selection.Loader) error {
	for name, element := range p.elements {
		if name == p.target {
			continue
		}
		vocab := p.classifiers[name].Vocabulary()
		names := make([]string, vocab.Len())
		for i := range names {
			names[i] = vocab.CategoryName(i)
		}
		element.Load(names)
	}

	target := p.elements[p.target]

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := target.LoadAsync(waitCtx, loader)
	loadErr := make(chan error, 1)
	go func() {
		err := <-done
		if err == nil && target.Count() == 0 {
			err = ErrNoAssets
		}
		if err != nil {
			loadErr <- err
			cancel()
		}
		close(loadErr)
	}()

	opts := session.PollOptionsFromConfig(p.config.Session)
	if err := p.session.AwaitReady(waitCtx, target, opts); err != nil {
		if ctx.Err() == nil {
			select {
			case lerr, ok := <-loadErr:
				if ok {
					return fmt.Errorf("load %s assets: %w", p.target, lerr)
				}
			default:
			}
		}
		return err
	}

	target.LogAssets(p.log)
	return nil
}

// Command applies a free-text command such as "hair long and wavy".
// Without a vocabulary prefix the text applies to the target vocabulary.
func (p *Pipeline) Command(line string) (CommandResult, error) {
	line = strings.TrimSpace(line)
	name, text := p.target, line
	head, rest, _ := strings.Cut(line, " ")
	if _, ok := p.classifiers[strings.ToLower(head)]; ok {
		name, text = strings.ToLower(head), strings.TrimSpace(rest)
	}

	element := p.elements[name]
	res, err := p.classifiers[name].Apply(text, element)
	out := CommandResult{Vocabulary: name, Text: text, Result: res}
	if err != nil {
		return out, err
	}

	out.Asset, _ = element.Asset(res.Index)
	return out, nil
}

// Session returns the labeling session
func (p *Pipeline) Session() *session.Session {
	return p.session
}

// Target returns the name of the labeled vocabulary
func (p *Pipeline) Target() string {
	return p.target
}

// Element returns the selection element for a vocabulary
func (p *Pipeline) Element(name string) (*selection.Element, bool) {
	e, ok := p.elements[name]
	return e, ok
}

// Vocabularies returns the configured vocabulary names, sorted
func (p *Pipeline) Vocabularies() []string {
	return p.config.VocabularyNames()
}

// Renderer returns the summary renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// LogSummary logs one line per category bucket
func (p *Pipeline) LogSummary() error {
	report, err := p.session.Report()
	if err != nil {
		return err
	}
	for _, line := range SummaryLines(report) {
		p.log.Info(line)
	}
	return nil
}

// Close detaches the selection watchers
func (p *Pipeline) Close() {
	for _, reg := range p.watches {
		reg.Release()
	}
	p.watches = nil
}

// Export writes the session report to the given paths; empty paths are skipped
func (p *Pipeline) Export(jsonPath, mdPath string) (model.LabelSummary, error) {
	report, err := p.session.Report()
	if err != nil {
		return report, err
	}

	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return report, err
		}
		p.log.WithField("path", jsonPath).Info("summary written")
	}
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return report, err
		}
		p.log.WithField("path", mdPath).Info("summary written")
	}

	return report, nil
}
