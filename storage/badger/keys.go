package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/clausematch/core"
	"github.com/poiesic/clausematch/storage"
)

// Key prefixes for different data types
const (
	documentInfoPrefix  = "docinf:"
	documentChunkPrefix = "docchk:"
)

const (
	hashSize  = 8
	indexSize = 4
)

// documentHash maps a document ID to the fixed-width hash used in keys.
func documentHash(id string) core.ID {
	return core.IDFromContent(id)
}

// makeDocumentInfoKey generates the key for a document header.
// Format: prefix + hash
func makeDocumentInfoKey(id string) []byte {
	buf := make([]byte, len(documentInfoPrefix)+hashSize)
	offset := copy(buf, documentInfoPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentHash(id)))
	return buf
}

// makeChunkPrefix generates the key prefix shared by all chunks of a document.
// Format: prefix + hash
func makeChunkPrefix(id string) []byte {
	buf := make([]byte, len(documentChunkPrefix)+hashSize)
	offset := copy(buf, documentChunkPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentHash(id)))
	return buf
}

// makeChunkKey generates the key for the chunk at position within a document.
// Format: prefix + hash + position
// Written in BigEndian order so a prefix scan returns chunks in order.
func makeChunkKey(id string, position int) []byte {
	prefix := makeChunkPrefix(id)
	buf := make([]byte, len(prefix)+indexSize)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], uint32(position))
	return buf
}

// documentHashFromChunkKey extracts the document hash from a chunk key.
func documentHashFromChunkKey(key []byte) (core.ID, error) {
	if len(key) < len(documentChunkPrefix)+hashSize+indexSize {
		return 0, fmt.Errorf("%w: chunk key of %d bytes", storage.ErrTruncatedData, len(key))
	}
	offset := len(documentChunkPrefix)
	return core.ID(binary.BigEndian.Uint64(key[offset : offset+hashSize])), nil
}
