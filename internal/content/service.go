// Package content composes the text provider with the formatting pipeline.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alkime/xivix/internal/postformat"
	"github.com/alkime/xivix/internal/provider"
	"github.com/alkime/xivix/pkg/collections"
)

const (
	// MaxBulkTopics is the hard cap on topics per bulk request.
	MaxBulkTopics = 10

	defaultTimeout = 90 * time.Second
)

// Recorder observes provider calls.
type Recorder interface {
	ObserveProviderCall(provider, operation string, elapsed time.Duration, err error)
}

type noopRecorder struct{}

func (noopRecorder) ObserveProviderCall(string, string, time.Duration, error) {}

// Options configures a Service.
type Options struct {
	Kind          provider.Kind
	Factory       provider.Factory
	APIKey        string
	Timeout       time.Duration
	Pipeline      *postformat.Pipeline
	PresetName    string
	MaxBulkTopics int
	Recorder      Recorder
	Logger        *slog.Logger
}

// Service runs generation and formatting requests.
type Service struct {
	kind       provider.Kind
	factory    provider.Factory
	apiKey     string
	timeout    time.Duration
	pipeline   *postformat.Pipeline
	presetName string
	maxTopics  int
	recorder   Recorder
	logger     *slog.Logger
}

// NewService creates a Service.
func NewService(opts Options) *Service {
	s := &Service{
		kind:       opts.Kind,
		factory:    opts.Factory,
		apiKey:     strings.TrimSpace(opts.APIKey),
		timeout:    opts.Timeout,
		pipeline:   opts.Pipeline,
		presetName: opts.PresetName,
		maxTopics:  collections.Clamp(opts.MaxBulkTopics, 1, MaxBulkTopics),
		recorder:   opts.Recorder,
		logger:     opts.Logger,
	}

	if s.kind == "" {
		s.kind = provider.KindGemini
	}
	if s.factory == nil {
		s.factory = provider.NewFactory(s.kind, "")
	}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	if s.pipeline == nil {
		s.pipeline = postformat.New(postformat.PresetClassic())
	}
	if s.presetName == "" {
		s.presetName = postformat.PresetNameClassic
	}
	if opts.MaxBulkTopics <= 0 {
		s.maxTopics = MaxBulkTopics
	}
	if s.recorder == nil {
		s.recorder = noopRecorder{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// GenerateRequest asks for a new post.
type GenerateRequest struct {
	Topic        string
	Style        string
	Category     string
	Tone         string
	OriginalText string
	MediaURL     string
	Readability  bool
	// APIKey overrides the configured Gemini key for this request.
	APIKey string
}

// GenerateResult is a generated and formatted post.
type GenerateResult struct {
	Title              string
	Content            string
	Hashtags           string
	RawLength          int
	PureTextLength     int
	Style              string
	Category           string
	Tone               string
	ReadabilityApplied bool
}

// Generate builds a prompt, calls the provider and formats the answer.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	topic := strings.TrimSpace(req.Topic)
	category := LookupCategory(req.Category)
	style := LookupStyle(req.Style)
	tone := LookupTone(req.Tone)

	var prompt string
	if category.Key == CategoryRewrite {
		original := strings.TrimSpace(req.OriginalText)
		if original == "" {
			return nil, missing("originalText", "리라이팅할 원문을 입력해주세요.")
		}
		prompt = RewritePrompt(original, style, tone)
	} else {
		if topic == "" {
			return nil, missing("topic", "주제를 입력해주세요.")
		}
		prompt = GeneratePrompt(topic, style, category, tone)
	}

	p, err := s.providerFor(ctx, req.APIKey)
	if err != nil {
		return nil, err
	}

	raw, err := s.call(ctx, p, "generate", prompt)
	if err != nil {
		return nil, err
	}

	sections := postformat.Split(raw, postformat.SplitOptions{Topic: topic})
	formatted := s.pipeline.Format(sections.Body, postformat.FormatOptions{
		Readability: req.Readability,
		MediaURL:    strings.TrimSpace(req.MediaURL),
	})

	return &GenerateResult{
		Title:              postformat.Strip(sections.Title),
		Content:            formatted.Text,
		Hashtags:           sections.Hashtags,
		RawLength:          formatted.RawLength,
		PureTextLength:     formatted.PureTextLength,
		Style:              style.Name,
		Category:           category.Name,
		Tone:               tone.Name,
		ReadabilityApplied: formatted.ReadabilityApplied,
	}, nil
}

// TransformRequest asks for caller supplied text to be formatted.
type TransformRequest struct {
	Text        string
	Readability bool
	MediaURL    string
	// HTML marks Text as editor markup to be flattened first.
	HTML bool
}

// Transform strips and formats caller supplied text without calling the
// provider.
func (s *Service) Transform(req TransformRequest) (postformat.Result, error) {
	text := req.Text
	if req.HTML {
		plain, err := HTMLToText(text)
		if err != nil {
			return postformat.Result{}, &ValidationError{Field: "text", Message: "HTML을 해석할 수 없습니다."}
		}
		text = plain
	}

	if strings.TrimSpace(text) == "" {
		return postformat.Result{}, missing("text", "변환할 텍스트를 입력해주세요.")
	}

	return s.pipeline.Format(text, postformat.FormatOptions{
		Readability: req.Readability,
		MediaURL:    strings.TrimSpace(req.MediaURL),
	}), nil
}

// Reformat re-applies readability spacing and markers to formatted text.
func (s *Service) Reformat(text string) (postformat.Result, error) {
	if strings.TrimSpace(text) == "" {
		return postformat.Result{}, missing("text", "재정렬할 텍스트를 입력해주세요.")
	}

	return s.pipeline.Reformat(text), nil
}

// BulkRequest asks for one post per topic.
type BulkRequest struct {
	Topics   []string
	Style    string
	Category string
	Tone     string
	APIKey   string
}

// BulkItem is the outcome for a single topic.
type BulkItem struct {
	Topic    string
	Title    string
	Content  string
	Hashtags string
	Success  bool
	Error    string
}

// BulkResult collects the outcome of every topic.
type BulkResult struct {
	Results []BulkItem
	Total   int
	Success int
}

// BulkGenerate generates posts one topic at a time. A failed topic is
// recorded in its own item and does not stop the batch.
func (s *Service) BulkGenerate(ctx context.Context, req BulkRequest) (*BulkResult, error) {
	if len(req.Topics) == 0 {
		return nil, missing("topics", "주제 목록을 입력해주세요.")
	}

	topics := req.Topics
	if len(topics) > s.maxTopics {
		s.logger.Warn("Truncating bulk topics", "requested", len(topics), "max", s.maxTopics)
		topics = topics[:s.maxTopics]
	}

	if _, err := s.providerFor(ctx, req.APIKey); err != nil {
		return nil, err
	}

	category := req.Category
	if LookupCategory(category).Key == CategoryRewrite {
		category = DefaultCategory
	}

	result := &BulkResult{Results: make([]BulkItem, 0, len(topics)), Total: len(topics)}
	for i, topic := range topics {
		item := BulkItem{Topic: topic}

		gen, err := s.Generate(ctx, GenerateRequest{
			Topic:       topic,
			Style:       req.Style,
			Category:    category,
			Tone:        req.Tone,
			Readability: true,
			APIKey:      req.APIKey,
		})
		if err != nil {
			s.logger.Warn("Bulk topic failed", "index", i, "topic", topic, "error", err)
			item.Error = err.Error()
		} else {
			item.Title = gen.Title
			item.Content = gen.Content
			item.Hashtags = gen.Hashtags
			item.Success = true
			result.Success++
		}

		result.Results = append(result.Results, item)
	}

	s.logger.Info("Bulk generation finished", "total", result.Total, "success", result.Success)

	return result, nil
}

// FindKeywords returns the provider's unprocessed keyword analysis.
func (s *Service) FindKeywords(ctx context.Context, mainKeyword, apiKey string) (string, error) {
	keyword := strings.TrimSpace(mainKeyword)
	if keyword == "" {
		return "", missing("mainKeyword", "메인 키워드를 입력해주세요.")
	}

	p, err := s.providerFor(ctx, apiKey)
	if err != nil {
		return "", err
	}

	return s.call(ctx, p, "keywords", KeywordFinderPrompt(keyword))
}

// Status describes the service dependencies.
type Status struct {
	Provider           string
	ProviderConfigured bool
	Pipeline           string
}

// Status reports which provider is in use and whether it has a credential.
func (s *Service) Status() Status {
	return Status{
		Provider:           string(s.kind),
		ProviderConfigured: s.apiKey != "",
		Pipeline:           s.presetName,
	}
}

func (s *Service) providerFor(ctx context.Context, requestKey string) (provider.Provider, error) {
	key := s.apiKey
	if k := strings.TrimSpace(requestKey); k != "" && s.kind == provider.KindGemini {
		key = k
	}
	if key == "" {
		return nil, &ConfigurationError{Provider: s.kind.DisplayName()}
	}

	p, err := s.factory(ctx, key)
	if err != nil {
		if errors.Is(err, provider.ErrMissingAPIKey) {
			return nil, &ConfigurationError{Provider: s.kind.DisplayName()}
		}
		return nil, fmt.Errorf("create provider: %w", err)
	}

	return p, nil
}

func (s *Service) call(ctx context.Context, p provider.Provider, operation, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := p.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = provider.ErrEmptyResult
	}
	elapsed := time.Since(start)
	s.recorder.ObserveProviderCall(p.Name(), operation, elapsed, err)

	if err != nil {
		s.logger.Error("Provider call failed", "provider", p.Name(), "operation", operation, "elapsed", elapsed, "error", err)
		var perr *provider.Error
		if errors.As(err, &perr) || errors.Is(err, provider.ErrEmptyResult) {
			return "", err
		}
		return "", &provider.Error{Provider: p.Name(), Message: err.Error(), Err: err}
	}

	s.logger.Debug("Provider call succeeded", "provider", p.Name(), "operation", operation, "elapsed", elapsed)

	return text, nil
}
