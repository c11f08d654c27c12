package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier used for storage keys.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Chunk is a contiguous span of one document's extracted text together with
// its embedding. Chunks are produced by the chunking/embedding pipeline and
// are read-only while a comparison runs.
type Chunk struct {
	ID    string `yaml:"id" json:"id"`
	Index int    `yaml:"index" json:"index"`
	// PageNumber is the 1-based source page.
	PageNumber     int `yaml:"pageNumber" json:"pageNumber"`
	CharacterCount int `yaml:"characterCount" json:"characterCount"`
	// Text is optional. Lexical filtering only applies when both sides have it.
	Text      string    `yaml:"text,omitempty" json:"text,omitempty"`
	Embedding []float32 `yaml:"embedding,flow" json:"embedding"`
}

// Ref returns the lightweight projection of the chunk used in match lists.
func (c *Chunk) Ref() ChunkRef {
	return ChunkRef{
		ID:             c.ID,
		Index:          c.Index,
		PageNumber:     c.PageNumber,
		CharacterCount: c.CharacterCount,
	}
}

// ChunkRef is a reduced projection of a Chunk. It never carries text or
// vectors so match lists stay small.
type ChunkRef struct {
	ID             string `json:"id"`
	Index          int    `json:"index"`
	PageNumber     int    `json:"pageNumber"`
	CharacterCount int    `json:"characterCount"`
}

// ChunkMatch is one accepted pairing between a chunk of document A and a
// chunk of document B.
type ChunkMatch struct {
	ChunkA ChunkRef `json:"chunkA"`
	ChunkB ChunkRef `json:"chunkB"`
	// Score is the cosine similarity at match time.
	Score float64 `json:"score"`
	// JaccardScore is the lexical overlap of the two texts. It is zero when
	// lexical filtering was not applied to the pair.
	JaccardScore float64 `json:"jaccardScore,omitempty"`
}

// Swapped returns the match with its A and B sides exchanged.
func (m ChunkMatch) Swapped() ChunkMatch {
	return ChunkMatch{
		ChunkA:       m.ChunkB,
		ChunkB:       m.ChunkA,
		Score:        m.Score,
		JaccardScore: m.JaccardScore,
	}
}

// Document is an ordered chunk sequence identified by ID.
type Document struct {
	ID     string  `yaml:"id" json:"id"`
	Title  string  `yaml:"title,omitempty" json:"title,omitempty"`
	Chunks []Chunk `yaml:"chunks" json:"chunks"`
}

// TotalCharacters sums the character counts of all chunks.
func (d *Document) TotalCharacters() int {
	return TotalCharacters(d.Chunks)
}

// Info builds the stored header for the document.
func (d *Document) Info() *DocumentInfo {
	info := &DocumentInfo{
		ID:              d.ID,
		Title:           d.Title,
		ChunkCount:      len(d.Chunks),
		TotalCharacters: d.TotalCharacters(),
	}
	if len(d.Chunks) > 0 {
		info.Dimensions = len(d.Chunks[0].Embedding)
	}
	return info
}

// DocumentInfo is the header persisted for each stored document.
type DocumentInfo struct {
	ID              string    `json:"id"`
	Title           string    `json:"title,omitempty"`
	ChunkCount      int       `json:"chunkCount"`
	TotalCharacters int       `json:"totalCharacters"`
	Dimensions      int       `json:"dimensions"`
	InsertedAt      time.Time `json:"insertedAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SearchResult is a stored chunk returned by a similarity lookup.
type SearchResult struct {
	DocumentID string   `json:"documentId"`
	Chunk      ChunkRef `json:"chunk"`
	Text       string   `json:"text,omitempty"`
	Score      float64  `json:"score"`
	// Verbatim is set when every significant query word occurs in Text.
	Verbatim bool `json:"verbatim,omitempty"`
}

// TotalCharacters sums the character counts of chunks.
func TotalCharacters(chunks []Chunk) int {
	total := 0
	for i := range chunks {
		total += chunks[i].CharacterCount
	}
	return total
}
