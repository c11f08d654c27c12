package ingest

import (
	"context"
	"fmt"

	"github.com/poiesic/clausematch/core"
	"github.com/poiesic/clausematch/similarity"
)

// Reembed replaces the vectors of stored documents with fresh embeddings of
// their chunk texts, for example after switching embedding models. An empty
// ids list selects every stored document.
//
// Every selected chunk must carry text. Documents are stored one at a time,
// so a failure leaves the documents before it re-embedded.
func (im *Importer) Reembed(ctx context.Context, ids ...string) (*Stats, error) {
	if im.embedder == nil {
		return nil, ErrEmbedderRequired
	}

	if len(ids) == 0 {
		infos, err := im.repo.ListDocuments(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}
		for _, info := range infos {
			ids = append(ids, info.ID)
		}
	}

	docs := make([]*core.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := im.repo.GetDocument(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", id, err)
		}
		for i := range doc.Chunks {
			if doc.Chunks[i].Text == "" {
				return nil, fmt.Errorf("%w: %s/%s: %w", core.ErrInvalidChunk, doc.ID, doc.Chunks[i].ID, ErrNothingToEmbed)
			}
		}
		docs = append(docs, doc)
	}

	stats := &Stats{}
	for _, doc := range docs {
		chunks := make([]*core.Chunk, len(doc.Chunks))
		for i := range doc.Chunks {
			chunks[i] = &doc.Chunks[i]
		}
		if err := im.embedChunks(ctx, chunks); err != nil {
			im.logger.Error("reembedding stopped", "document", doc.ID, "reembedded", stats.Documents, "err", err)
			return stats, err
		}
		for _, chunk := range chunks {
			chunk.Embedding = similarity.Normalize(chunk.Embedding)
		}

		if err := im.repo.PutDocuments(ctx, doc); err != nil {
			return stats, err
		}
		stats.Documents++
		stats.Chunks += len(chunks)
		stats.Embedded += len(chunks)
		im.logger.Debug("reembedded document", "document", doc.ID, "chunks", len(chunks))
	}

	im.logger.Info("reembedded documents",
		"documents", stats.Documents,
		"chunks", stats.Embedded)
	return stats, nil
}
