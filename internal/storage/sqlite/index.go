// ABOUTME: VectorIndex stores chunk embeddings and runs cosine top-k queries
// ABOUTME: Upsert is idempotent by chunk id; ties are broken by id for determinism
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/yashraj10/retention-rag/internal/models"
)

// VectorIndex is the sole persistent state of the system: a collection of
// chunks keyed by id with one fixed-dimension vector each.
type VectorIndex struct {
	db *DB
}

// OpenIndex opens or creates the index at path.
func OpenIndex(path string) (*VectorIndex, error) {
	db, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
	}
	return &VectorIndex{db: db}, nil
}

// OpenExistingIndex opens the index at path and fails if no store exists
// yet. The online query path uses this so "not ingested" is distinguishable
// from "no results found".
func OpenExistingIndex(path string) (*VectorIndex, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s (run ingest first)", models.ErrIndexUnavailable, path)
	}
	return OpenIndex(path)
}

// NewIndexInMemory creates a throwaway index (for testing).
func NewIndexInMemory() (*VectorIndex, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
	}
	return &VectorIndex{db: db}, nil
}

// Close closes the underlying database.
func (idx *VectorIndex) Close() error {
	return idx.db.Close()
}

// Upsert stores a chunk with its vector, overwriting any existing row with
// the same chunk id. The vector dimension is fixed for the life of the
// index; a mismatched dimension is rejected.
func (idx *VectorIndex) Upsert(chunk models.Chunk, kind models.SourceKind, uri string, vector []float64) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty vector for chunk %s", chunk.ID)
	}

	dim, err := idx.dimension()
	if err != nil {
		return err
	}
	if dim != 0 && dim != len(vector) {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(vector), dim)
	}

	_, err = idx.db.Exec(`
		INSERT INTO chunks (id, source_id, source_kind, source_uri, text, start_offset, end_offset, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			source_kind = excluded.source_kind,
			source_uri = excluded.source_uri,
			text = excluded.text,
			start_offset = excluded.start_offset,
			end_offset = excluded.end_offset,
			vector = excluded.vector
	`, chunk.ID, chunk.SourceID, string(kind), uri, chunk.Text, chunk.Start, chunk.End, vectorToBlob(vector))

	return err
}

// Query returns the k nearest chunks to vector by cosine similarity, ordered
// by descending score with ties broken by chunk id. A k larger than the
// index returns everything; an empty index returns zero matches.
func (idx *VectorIndex) Query(vector []float64, k int) ([]models.RetrievedChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	rows, err := idx.db.Query(`
		SELECT id, source_id, source_kind, source_uri, text, start_offset, end_offset, vector
		FROM chunks
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []models.RetrievedChunk
	for rows.Next() {
		var (
			chunk models.Chunk
			kind  string
			uri   string
			blob  []byte
		)
		if err := rows.Scan(&chunk.ID, &chunk.SourceID, &kind, &uri, &chunk.Text, &chunk.Start, &chunk.End, &blob); err != nil {
			return nil, err
		}

		results = append(results, models.RetrievedChunk{
			Chunk:      chunk,
			SourceKind: models.SourceKind(kind),
			SourceURI:  uri,
			Score:      CosineSimilarity(vector, blobToVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (idx *VectorIndex) Count() (int, error) {
	var n int
	err := idx.db.QueryRow(`SELECT COUNT(*) FROM chunks`).Scan(&n)
	return n, err
}

// Reset removes all stored chunks.
func (idx *VectorIndex) Reset() error {
	_, err := idx.db.Exec(`DELETE FROM chunks`)
	return err
}

// StoredChunk is one exported row of the knowledge base.
type StoredChunk struct {
	Chunk      models.Chunk      `json:"chunk"`
	SourceKind models.SourceKind `json:"source_kind"`
	SourceURI  string            `json:"source_uri"`
	Vector     []float64         `json:"vector"`
}

// ExportAll returns every stored chunk with its vector, ordered by id.
func (idx *VectorIndex) ExportAll() ([]StoredChunk, error) {
	rows, err := idx.db.Query(`
		SELECT id, source_id, source_kind, source_uri, text, start_offset, end_offset, vector
		FROM chunks
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []StoredChunk
	for rows.Next() {
		var (
			sc   StoredChunk
			kind string
			blob []byte
		)
		if err := rows.Scan(&sc.Chunk.ID, &sc.Chunk.SourceID, &kind, &sc.SourceURI, &sc.Chunk.Text, &sc.Chunk.Start, &sc.Chunk.End, &blob); err != nil {
			return nil, err
		}
		sc.SourceKind = models.SourceKind(kind)
		sc.Vector = blobToVector(blob)
		out = append(out, sc)
	}
	return out, rows.Err()
}

// dimension returns the stored vector dimension, or 0 for an empty index.
func (idx *VectorIndex) dimension() (int, error) {
	var blobLen int
	err := idx.db.QueryRow(`SELECT length(vector) FROM chunks LIMIT 1`).Scan(&blobLen)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return blobLen / 8, nil
}

// vectorToBlob converts a float64 slice to a binary blob.
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to a float64 slice.
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}

// CosineSimilarity calculates cosine similarity between two vectors.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
