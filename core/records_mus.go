package core

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for stored records. Field order is part of the on-disk
// format: append new fields at the end only.
var (
	ChunkMUS        = chunkMUS{}
	DocumentInfoMUS = documentInfoMUS{}
	VectorMUS       = vectorMUS{}
)

type vectorMUS struct{}

func (s vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (s vectorMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 || length*raw.Float32.Size(0) > len(bs)-n {
		return nil, n, fmt.Errorf("%w: vector length %d", ErrCorruptRecord, length)
	}
	v = make([]float32, length)
	var n1 int
	for i := range v {
		v[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
	}
	return v, n, nil
}

func (s vectorMUS) Size(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return size
}

func (s vectorMUS) Skip(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return n, err
	}
	skip := length * raw.Float32.Size(0)
	if length < 0 || skip > len(bs)-n {
		return n, fmt.Errorf("%w: vector length %d", ErrCorruptRecord, length)
	}
	return n + skip, nil
}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += varint.Int.Marshal(v.Index, bs[n:])
	n += varint.Int.Marshal(v.PageNumber, bs[n:])
	n += varint.Int.Marshal(v.CharacterCount, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += VectorMUS.Marshal(v.Embedding, bs[n:])
	return n
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	var n1 int
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Index, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.PageNumber, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CharacterCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Embedding, n1, err = VectorMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = ord.String.Size(v.ID)
	size += varint.Int.Size(v.Index)
	size += varint.Int.Size(v.PageNumber)
	size += varint.Int.Size(v.CharacterCount)
	size += ord.String.Size(v.Text)
	return size + VectorMUS.Size(v.Embedding)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return
	}
	for i := 0; i < 3; i++ {
		n1, err = varint.Int.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = VectorMUS.Skip(bs[n:])
	n += n1
	return
}

type documentInfoMUS struct{}

func (s documentInfoMUS) Marshal(v DocumentInfo, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += varint.Int.Marshal(v.ChunkCount, bs[n:])
	n += varint.Int.Marshal(v.TotalCharacters, bs[n:])
	n += varint.Int.Marshal(v.Dimensions, bs[n:])
	n += varint.Int64.Marshal(v.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (s documentInfoMUS) Unmarshal(bs []byte) (v DocumentInfo, n int, err error) {
	var (
		n1     int
		micros int64
	)
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChunkCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TotalCharacters, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Dimensions, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt = time.UnixMicro(micros).UTC()
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s documentInfoMUS) Size(v DocumentInfo) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.Title)
	size += varint.Int.Size(v.ChunkCount)
	size += varint.Int.Size(v.TotalCharacters)
	size += varint.Int.Size(v.Dimensions)
	size += varint.Int64.Size(v.InsertedAt.UnixMicro())
	return size + varint.Int64.Size(v.UpdatedAt.UnixMicro())
}

func (s documentInfoMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for i := 0; i < 3; i++ {
		n1, err = varint.Int.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for i := 0; i < 2; i++ {
		n1, err = varint.Int64.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
