package stream

import (
	"bytes"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// often used shortcuts
type (
	U64 Uno[uint64]
	KV  Duo[[]byte, []byte] // key, value
)

var (
	EmptyU64 = &Empty[uint64]{}
	EmptyKV  = &EmptyDuo[[]byte, []byte]{}
)

func FilterU64(it U64, filter func(k uint64) bool) *Filtered[uint64] {
	return Filter[uint64](it, filter)
}
func FilterKV(it KV, filter func(k, v []byte) bool) *FilteredDuo[[]byte, []byte] {
	return FilterDuo[[]byte, []byte](it, filter)
}

func ToArrayU64(s U64) ([]uint64, error)         { return ToArray[uint64](s) }
func ToArrayKV(s KV) ([][]byte, [][]byte, error) { return ToArrayDuo[[]byte, []byte](s) }

func ToArrU64Must(s U64) []uint64 {
	arr, err := ToArray[uint64](s)
	if err != nil {
		panic(err)
	}
	return arr
}
func ToArrKVMust(s KV) ([][]byte, [][]byte) {
	keys, values, err := ToArrayDuo[[]byte, []byte](s)
	if err != nil {
		panic(err)
	}
	return keys, values
}

func CountU64(s U64) (int, error) { return Count[uint64](s) }
func CountKV(s KV) (int, error)   { return CountDuo[[]byte, []byte](s) }

func TransformKV(it KV, transform func(k, v []byte) ([]byte, []byte, error)) *TransformedDuo[[]byte, []byte] {
	return TransformDuo[[]byte, []byte](it, transform)
}

func PaginateKV(f NextPageDuo[[]byte, []byte]) *PaginatedDuo[[]byte, []byte] {
	return PaginateDuo[[]byte, []byte](f)
}
func PaginateU64(f NextPageUno[uint64]) *Paginated[uint64] {
	return Paginate[uint64](f)
}

// UnionKV - merge 2 sorted kv streams to 1 in lexicographical order. 1-st stream has higher
// priority when both return the same key.
func UnionKV(x, y KV, limit int) KV {
	return UnionDuo[[]byte, []byte](x, y, bytes.Compare, limit)
}

type TransformKV2U64Iter[K, V []byte] struct {
	it        KV
	transform func(K, V) (uint64, error)
}

func TransformKV2U64[K, V []byte](it KV, transform func(K, V) (uint64, error)) *TransformKV2U64Iter[K, V] {
	return &TransformKV2U64Iter[K, V]{it: it, transform: transform}
}
func (m *TransformKV2U64Iter[K, V]) HasNext() bool { return m.it.HasNext() }
func (m *TransformKV2U64Iter[K, V]) Next() (uint64, error) {
	k, v, err := m.it.Next()
	if err != nil {
		return 0, err
	}
	return m.transform(k, v)
}
func (m *TransformKV2U64Iter[K, v]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// DedupedU64 - Unique specialized for uint64 streams: the seen-set is a roaring bitmap,
// which stays compact on dense or clustered inputs where a map would allocate per element.
type DedupedU64 struct {
	it      U64
	seen    *roaring64.Bitmap
	hasNext bool
	nextV   uint64
	err     error
}

func UniqueU64(it U64) *DedupedU64 {
	m := &DedupedU64{it: it, seen: roaring64.New()}
	m.advance()
	return m
}

func (m *DedupedU64) advance() {
	if m.err != nil {
		return
	}
	m.hasNext = false
	for m.it.HasNext() {
		v, err := m.it.Next()
		if err != nil {
			m.err = err
			return
		}
		if !m.seen.CheckedAdd(v) {
			continue
		}
		m.hasNext, m.nextV = true, v
		break
	}
}
func (m *DedupedU64) HasNext() bool { return m.err != nil || m.hasNext }
func (m *DedupedU64) Next() (v uint64, err error) {
	if m.err != nil {
		return v, m.err
	}
	if !m.hasNext {
		return v, ErrIteratorExhausted
	}
	v = m.nextV
	m.advance()
	return v, nil
}
func (m *DedupedU64) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}
