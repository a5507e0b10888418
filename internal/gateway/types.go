package gateway

import (
	"context"

	"github.com/enfoco/enfoco/internal/metrics"
)

// Record is one opaque dataset entry. The gateway never interprets record
// fields except `id` (reconciliation) and `name` (vault fallback).
type Record = map[string]any

// Source tells which branch produced an answer. The values double as the
// metrics source label.
type Source string

const (
	SourceUpstream Source = metrics.SourceUpstream
	SourceFallback Source = metrics.SourceFallback
	SourceLocal    Source = metrics.SourceLocal
)

// SearchResult is the answer to a section search.
type SearchResult struct {
	Results []Record `json:"results"`
	Insight string   `json:"insight"`
	Source  Source   `json:"source"`
}

// VaultResult is the answer to a vault search.
type VaultResult struct {
	Results []Record `json:"results"`
	Comment string   `json:"comment"`
	Source  Source   `json:"source"`
}

// Gateway is the capability surface over the hosted model. Implementations
// never return errors; every failure resolves to a fallback value.
type Gateway interface {
	Search(ctx context.Context, query string, dataset []Record, section string) SearchResult
	VaultSearch(ctx context.Context, query string, files []Record) VaultResult
	Chat(ctx context.Context, contextText, message string) string
	AnalyzeVisual(ctx context.Context, image []byte, mimeType string) string
}

// Fixed status strings returned by the fallback branches.
const (
	ChatFallback        = "I cannot access the neural link right now. Please try again later."
	ChatEmpty           = "No response generated."
	VisionFallback      = ":: VISUAL SENSOR OFFLINE :: Unable to process image data."
	VisionEmpty         = "Visual analysis complete."
	VaultFallbackNotice = ":: SECURITY ALERT :: External uplink failed. Switching to local keyword match."
)

// DefaultBookQuestion is asked when a book chat arrives without a message.
const DefaultBookQuestion = "Explain the core theme of this book and why it matters to humanity."
