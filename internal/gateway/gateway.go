// Package gateway wraps an upstream model behind four total operations:
// section search, vault search, contextual chat and image analysis. Every
// operation resolves upstream failures to a deterministic local answer.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/enfoco/enfoco/internal/llm"
	"github.com/enfoco/enfoco/internal/metrics"
)

const (
	DefaultTimeout         = 30 * time.Second
	DefaultDatasetMaxBytes = 20000
	DefaultContextMaxChars = 10000
	DefaultMaxOutputTokens = 2048
)

var errNoProvider = errors.New("no model provider configured")

// Options tunes a Service. Zero values take the package defaults.
type Options struct {
	Model           string
	Timeout         time.Duration
	DatasetMaxBytes int
	ContextMaxChars int
	MaxOutputTokens int
	Logger          *zap.Logger
}

// Service is the Gateway backed by an llm.Provider. A nil provider is
// allowed and sends every call to its fallback.
type Service struct {
	provider        llm.Provider
	model           string
	timeout         time.Duration
	datasetMaxBytes int
	contextMaxChars int
	maxOutputTokens int
	logger          *zap.Logger
}

var _ Gateway = (*Service)(nil)

// NewService creates a gateway service.
func NewService(provider llm.Provider, opts Options) *Service {
	s := &Service{
		provider:        provider,
		model:           opts.Model,
		timeout:         opts.Timeout,
		datasetMaxBytes: opts.DatasetMaxBytes,
		contextMaxChars: opts.ContextMaxChars,
		maxOutputTokens: opts.MaxOutputTokens,
		logger:          opts.Logger,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.datasetMaxBytes <= 0 {
		s.datasetMaxBytes = DefaultDatasetMaxBytes
	}
	if s.contextMaxChars <= 0 {
		s.contextMaxChars = DefaultContextMaxChars
	}
	if s.maxOutputTokens <= 0 {
		s.maxOutputTokens = DefaultMaxOutputTokens
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Search asks the model which dataset records match query. An empty query
// returns the dataset unchanged without calling upstream.
func (s *Service) Search(ctx context.Context, query string, dataset []Record, section string) SearchResult {
	start := time.Now()
	res := s.search(ctx, query, dataset, section)
	metrics.ObserveGateway("search", string(res.Source), time.Since(start))
	return res
}

func (s *Service) search(ctx context.Context, query string, dataset []Record, section string) SearchResult {
	if strings.TrimSpace(query) == "" {
		return SearchResult{Results: cloneRecords(dataset), Source: SourceLocal}
	}

	results, insight, err := s.askForSubset(ctx, dataset, "insight", func(data string) string {
		return buildSearchPrompt(section, query, data)
	})
	if err != nil {
		s.logger.Warn("search fell back",
			zap.String("section", section),
			zap.String("query", query),
			zap.Error(err))
		return SearchResult{
			Results: firstRecords(dataset, 2),
			Insight: fmt.Sprintf("[OFFLINE PROTOCOL] Rerouting... displaying cached data for \"%s\".", query),
			Source:  SourceFallback,
		}
	}
	return SearchResult{Results: results, Insight: insight, Source: SourceUpstream}
}

// VaultSearch filters the vault manifest. The fallback is a case-insensitive
// substring match on each file's name.
func (s *Service) VaultSearch(ctx context.Context, query string, files []Record) VaultResult {
	start := time.Now()
	res := s.vaultSearch(ctx, query, files)
	metrics.ObserveGateway("vault_search", string(res.Source), time.Since(start))
	return res
}

func (s *Service) vaultSearch(ctx context.Context, query string, files []Record) VaultResult {
	if strings.TrimSpace(query) == "" {
		return VaultResult{Results: cloneRecords(files), Source: SourceLocal}
	}

	results, comment, err := s.askForSubset(ctx, files, "comment", func(data string) string {
		return buildVaultPrompt(query, data)
	})
	if err != nil {
		s.logger.Warn("vault search fell back", zap.String("query", query), zap.Error(err))
		return VaultResult{
			Results: matchNames(files, query),
			Comment: VaultFallbackNotice,
			Source:  SourceFallback,
		}
	}
	return VaultResult{Results: results, Comment: comment, Source: SourceUpstream}
}

// askForSubset runs one JSON-mode completion over the encoded records and
// reconciles the answer against them.
func (s *Service) askForSubset(ctx context.Context, records []Record, noteKey string, prompt func(string) string) ([]Record, string, error) {
	data, err := encodeDataset(records, s.datasetMaxBytes)
	if err != nil {
		return nil, "", err
	}
	text, err := s.complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt(data)}},
		JSONMode: true,
	})
	if err != nil {
		return nil, "", err
	}
	raw, note, err := parseEnvelope(text, noteKey)
	if err != nil {
		return nil, "", err
	}
	results, dropped := reconcile(raw, records)
	if dropped > 0 {
		metrics.AddDroppedResults(dropped)
		s.logger.Debug("dropped fabricated results", zap.Int("dropped", dropped))
	}
	return results, note, nil
}

// Chat answers message with contextText as grounding. The context is cut to
// the configured number of characters.
func (s *Service) Chat(ctx context.Context, contextText, message string) string {
	start := time.Now()
	answer, source := s.chat(ctx, contextText, message)
	metrics.ObserveGateway("chat", string(source), time.Since(start))
	return answer
}

func (s *Service) chat(ctx context.Context, contextText, message string) (string, Source) {
	prompt := buildChatPrompt(truncateRunes(contextText, s.contextMaxChars), message)
	text, err := s.complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
	})
	if err != nil {
		s.logger.Warn("chat fell back", zap.Error(err))
		return ChatFallback, SourceFallback
	}
	if text = strings.TrimSpace(text); text == "" {
		return ChatEmpty, SourceUpstream
	}
	return text, SourceUpstream
}

// AnalyzeVisual describes an image. An empty mimeType is sniffed from the
// bytes.
func (s *Service) AnalyzeVisual(ctx context.Context, image []byte, mimeType string) string {
	start := time.Now()
	answer, source := s.analyzeVisual(ctx, image, mimeType)
	metrics.ObserveGateway("analyze_visual", string(source), time.Since(start))
	return answer
}

func (s *Service) analyzeVisual(ctx context.Context, image []byte, mimeType string) (string, Source) {
	if len(image) == 0 {
		s.logger.Warn("vision fell back", zap.String("reason", "empty image"))
		return VisionFallback, SourceFallback
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	text, err := s.complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{{
			Role:        llm.RoleUser,
			Content:     visionPrompt,
			Attachments: []llm.Attachment{{MIMEType: mimeType, Data: image}},
		}},
	})
	if err != nil {
		s.logger.Warn("vision fell back", zap.String("mime_type", mimeType), zap.Error(err))
		return VisionFallback, SourceFallback
	}
	if text = strings.TrimSpace(text); text == "" {
		return VisionEmpty, SourceUpstream
	}
	return text, SourceUpstream
}

type completion struct {
	resp *llm.CompletionResponse
	err  error
}

// complete issues one bounded upstream call. The deadline holds even if the
// provider ignores its context.
func (s *Service) complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	if s.provider == nil {
		return "", errNoProvider
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req.Model = s.model
	req.MaxTokens = s.maxOutputTokens

	done := make(chan completion, 1)
	go func() {
		resp, err := s.provider.Complete(ctx, req)
		done <- completion{resp, err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", s.provider.Name(), ctx.Err())
	case c := <-done:
		if c.err != nil {
			return "", fmt.Errorf("%s: %w", s.provider.Name(), c.err)
		}
		if c.resp == nil {
			return "", fmt.Errorf("%s: %w", s.provider.Name(), errEmptyResponse)
		}
		s.recordUsage(req, c.resp)
		return c.resp.Content, nil
	}
}

// recordUsage estimates tokens locally when the provider reports none.
func (s *Service) recordUsage(req llm.CompletionRequest, resp *llm.CompletionResponse) {
	in, out := resp.InputTokens, resp.OutputTokens
	if in == 0 {
		for _, m := range req.Messages {
			in += llm.EstimateTokens(m.Content)
		}
	}
	if out == 0 {
		out = llm.EstimateTokens(resp.Content)
	}
	model := resp.Model
	if model == "" {
		model = s.model
	}
	cost := llm.EstimateCost(model, in, out)
	metrics.AddUsage(in, out, cost)
	s.logger.Debug("upstream usage",
		zap.String("model", model),
		zap.Int("input_tokens", in),
		zap.Int("output_tokens", out),
		zap.Float64("estimated_cost", cost),
	)
}

func cloneRecords(records []Record) []Record {
	return append(make([]Record, 0, len(records)), records...)
}

func firstRecords(records []Record, n int) []Record {
	if len(records) < n {
		n = len(records)
	}
	return cloneRecords(records[:n])
}

func matchNames(files []Record, query string) []Record {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]Record, 0)
	for _, f := range files {
		name, _ := f["name"].(string)
		if strings.Contains(strings.ToLower(name), needle) {
			out = append(out, f)
		}
	}
	return out
}
