// Package carousel implements the helix navigator: a fixed ring of items,
// pure state transitions for next/previous/select/back/scroll, and the
// smoothed angular position derived from the active index.
package carousel

import "fmt"

// Kind is the content kind of a helix item. The set is closed.
type Kind string

const (
	KindArticle Kind = "article"
	KindVideo   Kind = "video"
	KindImage   Kind = "image"
	KindAudio   Kind = "audio"
	KindBook    Kind = "book"
	KindVault   Kind = "vault"
)

var validKinds = map[Kind]bool{
	KindArticle: true,
	KindVideo:   true,
	KindImage:   true,
	KindAudio:   true,
	KindBook:    true,
	KindVault:   true,
}

// Valid reports whether k belongs to the closed kind set.
func (k Kind) Valid() bool { return validKinds[k] }

// Item is one entry of the helix ring.
type Item struct {
	ID          int      `json:"id" yaml:"id"`
	Kind        Kind     `json:"type" yaml:"type"`
	Title       string   `json:"title" yaml:"title"`
	Subtitle    string   `json:"subtitle" yaml:"subtitle"`
	Description string   `json:"desc" yaml:"desc"`
	Stats       []string `json:"stats" yaml:"stats"`
}

// DefaultItems returns the six-item ring shown on the dashboard.
func DefaultItems() []Item {
	return []Item{
		{
			ID: 1, Kind: KindArticle, Title: "DEEP INTEL", Subtitle: "GLOBAL_NARRATIVES",
			Description: "Aggregation of global news, local reports, and verified leaks. AI translates context instantly.",
			Stats:       []string{"Sources: 12k", "Latency: 20ms"},
		},
		{
			ID: 2, Kind: KindVideo, Title: "LIVE FEEDS", Subtitle: "REAL_TIME_ACCESS",
			Description: "Unfiltered windows into reality. Access satellite feeds, traffic nodes, and raw broadcast signals.",
			Stats:       []string{"Streams: 450+", "Res: 4K"},
		},
		{
			ID: 3, Kind: KindImage, Title: "VISUAL DATABASE", Subtitle: "HIGH_RES_ARCHIVE",
			Description: "Full-spectrum imagery. From satellite topography to historical photo-journalism.",
			Stats:       []string{"Items: 2M+", "Type: RAW"},
		},
		{
			ID: 4, Kind: KindAudio, Title: "SPECTRUM", Subtitle: "AUDIO_INTELLIGENCE",
			Description: "Listen deeper. Podcasts, radio intercepts, academic lectures, and space telemetry.",
			Stats:       []string{"Freq: ALL", "Noise: -90dB"},
		},
		{
			ID: 5, Kind: KindBook, Title: "ACADEMIC CORE", Subtitle: "UNIVERSAL_LIBRARY",
			Description: "The world's papers, books, and journals. Cross-referenced and searchable.",
			Stats:       []string{"Vols: 500k", "Peer-Rev: YES"},
		},
		{
			ID: 6, Kind: KindVault, Title: "MY ARCHIVE", Subtitle: "ENCRYPTED_DRIVE",
			Description: "Your secure workspace. Store terabytes of research, drafts, and datasets locally.",
			Stats:       []string{"Enc: AES-256", "Status: SECURE"},
		},
	}
}

// validateItems checks the ring is non-empty, ids are unique and kinds valid.
func validateItems(items []Item) error {
	if len(items) == 0 {
		return fmt.Errorf("carousel needs at least one item")
	}
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		if seen[it.ID] {
			return fmt.Errorf("duplicate item id %d", it.ID)
		}
		seen[it.ID] = true
		if !it.Kind.Valid() {
			return fmt.Errorf("item %d: invalid kind %q", it.ID, it.Kind)
		}
	}
	return nil
}
