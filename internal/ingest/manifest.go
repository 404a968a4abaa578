// ABOUTME: Source manifest listing the URLs and transcript files to ingest
// ABOUTME: Loaded from sources.json next to the knowledge base
package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yashraj10/retention-rag/internal/models"
)

// Manifest lists every source of the knowledge base. Web URLs are scraped;
// transcript files are read from disk (video transcripts exported ahead of
// time, one plain-text file per video).
type Manifest struct {
	WebURLs         []string `json:"web_urls"`
	TranscriptFiles []string `json:"transcript_files"`
}

// LoadManifest reads a manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(m.WebURLs) == 0 && len(m.TranscriptFiles) == 0 {
		return nil, fmt.Errorf("manifest %s lists no sources", path)
	}
	return &m, nil
}

// Entries expands the manifest into source stubs with stable ids. Ids are
// positional (web_0, web_1, yt_0, ...) so re-ingesting the same manifest
// overwrites rather than duplicates.
func (m *Manifest) Entries() []models.Source {
	entries := make([]models.Source, 0, len(m.WebURLs)+len(m.TranscriptFiles))
	for i, url := range m.WebURLs {
		entries = append(entries, models.Source{
			ID:   fmt.Sprintf("web_%d", i),
			URI:  url,
			Kind: models.SourceKindWeb,
		})
	}
	for j, file := range m.TranscriptFiles {
		entries = append(entries, models.Source{
			ID:   fmt.Sprintf("yt_%d", j),
			URI:  file,
			Kind: models.SourceKindTranscript,
		})
	}
	return entries
}
