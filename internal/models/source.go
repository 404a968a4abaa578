// ABOUTME: Source represents one raw knowledge-base document before chunking
// ABOUTME: Created during ingestion from the manifest and immutable thereafter
package models

// SourceKind identifies how a source's raw text was obtained.
type SourceKind string

const (
	SourceKindWeb        SourceKind = "web"
	SourceKindTranscript SourceKind = "video-transcript"
)

// Source is a raw knowledge-base document.
type Source struct {
	ID      string     `json:"id"`
	URI     string     `json:"uri"`
	Kind    SourceKind `json:"kind"`
	RawText string     `json:"raw_text"`
}
