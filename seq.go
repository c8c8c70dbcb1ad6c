// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package stream

import (
	"slices"
)

// Cycled - replay buffer behind Cycle
type Cycled[T any] struct {
	it   Uno[T]
	buf  []T
	pos  int
	left int
	err  error
}

// Cycle - replays the source n times in full. n == 0 yields an empty stream, n == 1 returns
// the source unchanged without buffering. Single-pass sources are buffered during the first
// pass so later passes can replay them; *ArrStream sources are drained in one NextBatch call
// instead. Memory grows with source length. Negative n is latched as ErrNegativeCount.
func Cycle[T any](it Uno[T], n int) Uno[T] {
	if n < 0 {
		return &Cycled[T]{err: ErrNegativeCount}
	}
	if n == 0 {
		return &Empty[T]{}
	}
	if n == 1 {
		return it
	}
	if arr, ok := it.(*ArrStream[T]); ok {
		buf, _ := arr.NextBatch()
		return &Cycled[T]{buf: buf, pos: len(buf), left: n}
	}
	return &Cycled[T]{it: it, left: n - 1}
}

func (m *Cycled[T]) HasNext() bool {
	if m.err != nil {
		return true
	}
	if m.it != nil {
		if m.it.HasNext() {
			return true
		}
		m.it = nil // first pass complete
		m.pos = len(m.buf)
	}
	if m.pos >= len(m.buf) {
		if m.left == 0 || len(m.buf) == 0 {
			return false
		}
		m.left--
		m.pos = 0
	}
	return true
}

func (m *Cycled[T]) Next() (v T, err error) {
	if m.err != nil {
		return v, m.err
	}
	if m.it != nil {
		if m.it.HasNext() {
			v, err = m.it.Next()
			if err != nil {
				m.err = err
				return v, err
			}
			m.buf = append(m.buf, v)
			return v, nil
		}
		m.it = nil
		m.pos = len(m.buf)
	}
	if m.pos >= len(m.buf) {
		if m.left == 0 || len(m.buf) == 0 {
			return v, ErrIteratorExhausted
		}
		m.left--
		m.pos = 0
	}
	v = m.buf[m.pos]
	m.pos++
	return v, nil
}

func (m *Cycled[T]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// Generated - one function call per produced element. No memoization: the function runs on
// every pull, side effects and randomness included. Arguments, if any, are captured by the
// closure and passed unchanged on each call.
type Generated[V any] struct {
	f    func() (V, error)
	left int // -1 means unbounded
	err  error
}

// Generate - unbounded stream of f() results. f errors propagate unchanged and latch.
func Generate[V any](f func() (V, error)) *Generated[V] {
	m := &Generated[V]{f: f, left: -1}
	if f == nil {
		m.err = ErrNilFunc
	}
	return m
}

// GenerateN - like Generate but stops after n calls. Negative n is latched as ErrNegativeCount.
func GenerateN[V any](f func() (V, error), n int) *Generated[V] {
	m := &Generated[V]{f: f, left: n}
	if f == nil {
		m.err = ErrNilFunc
	} else if n < 0 {
		m.err = ErrNegativeCount
	}
	return m
}

func (m *Generated[V]) HasNext() bool { return m.err != nil || m.left != 0 }
func (m *Generated[V]) Next() (v V, err error) {
	if m.err != nil {
		return v, m.err
	}
	if m.left == 0 {
		return v, ErrIteratorExhausted
	}
	if m.left > 0 {
		m.left--
	}
	v, err = m.f()
	if err != nil {
		m.err = err
	}
	return v, err
}
func (m *Generated[V]) Close() {}

// Prepended - one element ahead of a stream. The source is not touched until the prepended
// element has been produced.
type Prepended[T any] struct {
	v    T
	done bool
	it   Uno[T]
}

func Prepend[T any](v T, it Uno[T]) *Prepended[T] {
	if it == nil {
		it = &Empty[T]{}
	}
	return &Prepended[T]{v: v, it: it}
}
func (m *Prepended[T]) HasNext() bool { return !m.done || m.it.HasNext() }
func (m *Prepended[T]) Next() (v T, err error) {
	if !m.done {
		m.done = true
		return m.v, nil
	}
	if !m.it.HasNext() {
		return v, ErrIteratorExhausted
	}
	return m.it.Next()
}
func (m *Prepended[T]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// Appended - a stream followed by one trailing element.
type Appended[T any] struct {
	it   Uno[T]
	v    T
	done bool
}

func Append[T any](it Uno[T], v T) *Appended[T] {
	if it == nil {
		it = &Empty[T]{}
	}
	return &Appended[T]{it: it, v: v}
}
func (m *Appended[T]) HasNext() bool { return m.it.HasNext() || !m.done }
func (m *Appended[T]) Next() (v T, err error) {
	if m.it.HasNext() {
		return m.it.Next()
	}
	if !m.done {
		m.done = true
		return m.v, nil
	}
	return v, ErrIteratorExhausted
}
func (m *Appended[T]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// RoundRobinUno - interleaves several streams: one element from each per cycle, visiting
// sources in the order supplied. A source that runs dry is dropped mid-cycle and later cycles
// continue over the remaining sources in their original relative order, until all are dry.
type RoundRobinUno[T any] struct {
	its []Uno[T]
	i   int
	err error
}

func RoundRobin[T any](its ...Uno[T]) *RoundRobinUno[T] {
	alive := make([]Uno[T], 0, len(its))
	for _, it := range its {
		if it != nil {
			alive = append(alive, it)
		}
	}
	return &RoundRobinUno[T]{its: alive}
}

func (m *RoundRobinUno[T]) HasNext() bool {
	if m.err != nil {
		return true
	}
	for len(m.its) > 0 {
		if m.i >= len(m.its) {
			m.i = 0
		}
		if m.its[m.i].HasNext() {
			return true
		}
		m.its = append(m.its[:m.i], m.its[m.i+1:]...) // drop exhausted source, keep order
	}
	return false
}

func (m *RoundRobinUno[T]) Next() (v T, err error) {
	if m.err != nil {
		return v, m.err
	}
	if !m.HasNext() {
		return v, ErrIteratorExhausted
	}
	v, err = m.its[m.i].Next() // HasNext left m.i at a live source
	if err != nil {
		m.err = err
		return v, err
	}
	m.i++
	return v, nil
}

func (m *RoundRobinUno[T]) Close() {
	for _, it := range m.its {
		if x, ok := it.(Closer); ok {
			x.Close()
		}
	}
}

// Limited - at most the first n elements of a stream.
type Limited[T any] struct {
	it   Uno[T]
	left int
	err  error
}

// Head - first n elements. Negative n is latched as ErrNegativeCount.
func Head[T any](it Uno[T], n int) *Limited[T] {
	m := &Limited[T]{it: it, left: n}
	if n < 0 {
		m.err = ErrNegativeCount
	}
	return m
}
func (m *Limited[T]) HasNext() bool { return m.err != nil || (m.left > 0 && m.it.HasNext()) }
func (m *Limited[T]) Next() (v T, err error) {
	if m.err != nil {
		return v, m.err
	}
	if m.left <= 0 || !m.it.HasNext() {
		return v, ErrIteratorExhausted
	}
	m.left--
	v, err = m.it.Next()
	if err != nil {
		m.err = err
	}
	return v, err
}
func (m *Limited[T]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// Tailed - the last n elements of a stream. The source is fully consumed into an n-sized ring
// on the first pull: unbounded time on infinite sources, O(n) memory. Elements gathered before
// a source failure are delivered first, then the error.
type Tailed[T any] struct {
	it     Uno[T]
	n      int
	buf    []T
	primed bool
	err    error
}

func Tail[T any](it Uno[T], n int) *Tailed[T] {
	m := &Tailed[T]{it: it, n: n}
	if n < 0 {
		m.err = ErrNegativeCount
		m.primed = true
	}
	return m
}

func (m *Tailed[T]) prime() {
	if m.primed {
		return
	}
	m.primed = true
	if arr, ok := m.it.(*ArrStream[T]); ok {
		rest, _ := arr.NextBatch()
		if len(rest) > m.n {
			rest = rest[len(rest)-m.n:]
		}
		m.buf = rest
		return
	}
	buf := make([]T, 0, m.n)
	start := 0
	for m.it.HasNext() {
		v, err := m.it.Next()
		if err != nil {
			m.err = err
			break
		}
		if m.n == 0 {
			continue
		}
		if len(buf) < m.n {
			buf = append(buf, v)
		} else {
			buf[start] = v
			start = (start + 1) % m.n
		}
	}
	if start == 0 {
		m.buf = buf
		return
	}
	// unroll the ring: oldest element sits at start
	m.buf = append(append(make([]T, 0, m.n), buf[start:]...), buf[:start]...)
}

func (m *Tailed[T]) HasNext() bool {
	m.prime()
	return m.err != nil || len(m.buf) > 0
}
func (m *Tailed[T]) Next() (v T, err error) {
	m.prime()
	if len(m.buf) > 0 {
		v = m.buf[0]
		m.buf = m.buf[1:]
		return v, nil
	}
	if m.err != nil {
		return v, m.err
	}
	return v, ErrIteratorExhausted
}
func (m *Tailed[T]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// Reversed - the source back to front. Full materialization on the first pull: memory grows
// with source length, unbounded time on infinite sources. A source failure discards the
// partial buffer - a reversed prefix would be wrong data - and only the error is delivered.
type Reversed[T any] struct {
	it     Uno[T]
	buf    []T
	primed bool
	err    error
}

func Reverse[T any](it Uno[T]) *Reversed[T] { return &Reversed[T]{it: it} }

func (m *Reversed[T]) prime() {
	if m.primed {
		return
	}
	m.primed = true
	var arr []T
	if a, ok := m.it.(*ArrStream[T]); ok {
		rest, _ := a.NextBatch()
		arr = slices.Clone(rest)
	} else {
		var err error
		arr, err = ToArray(m.it)
		if err != nil {
			m.err = err
			return
		}
	}
	slices.Reverse(arr)
	m.buf = arr
}

func (m *Reversed[T]) HasNext() bool {
	m.prime()
	return m.err != nil || len(m.buf) > 0
}
func (m *Reversed[T]) Next() (v T, err error) {
	m.prime()
	if m.err != nil {
		return v, m.err
	}
	if len(m.buf) == 0 {
		return v, ErrIteratorExhausted
	}
	v = m.buf[0]
	m.buf = m.buf[1:]
	return v, nil
}
func (m *Reversed[T]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// Compacted - suppresses consecutive elements mapping to the same key, keeping the first of
// each run. Only the previous key is remembered, so memory is O(1). For global deduplication
// see UniqueBy.
type Compacted[T any, K comparable] struct {
	it      Uno[T]
	key     func(T) K
	lastK   K
	started bool
	hasNext bool
	nextV   T
	err     error
}

func CompactBy[T any, K comparable](it Uno[T], key func(T) K) *Compacted[T, K] {
	m := &Compacted[T, K]{it: it, key: key}
	if key == nil {
		m.err = ErrNilFunc
		return m
	}
	m.advance()
	return m
}

// Compact - suppresses consecutive duplicate elements, keeping the first of each run.
func Compact[T comparable](it Uno[T]) *Compacted[T, T] {
	return CompactBy(it, func(v T) T { return v })
}

func (m *Compacted[T, K]) advance() {
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
		k := m.key(v)
		if m.started && k == m.lastK {
			continue
		}
		m.started = true
		m.lastK = k
		m.hasNext, m.nextV = true, v
		break
	}
}
func (m *Compacted[T, K]) HasNext() bool { return m.err != nil || m.hasNext }
func (m *Compacted[T, K]) Next() (v T, err error) {
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
func (m *Compacted[T, K]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// Paired - Duo stream of successive overlapping pairs: a b c -> (a,b) (b,c). A source with
// fewer than two elements yields nothing.
type Paired[T any] struct {
	it     Uno[T]
	prev   T
	primed bool
	err    error
}

func Pairwise[T any](it Uno[T]) *Paired[T] { return &Paired[T]{it: it} }

func (m *Paired[T]) HasNext() bool {
	if m.err != nil {
		return true
	}
	if !m.primed {
		if !m.it.HasNext() {
			return false
		}
		v, err := m.it.Next()
		if err != nil {
			m.err = err
			return true
		}
		m.prev = v
		m.primed = true
	}
	return m.it.HasNext()
}

func (m *Paired[T]) Next() (a T, b T, err error) {
	if m.err != nil {
		return a, b, m.err
	}
	if !m.HasNext() {
		return a, b, ErrIteratorExhausted
	}
	b, err = m.it.Next()
	if err != nil {
		m.err = err
		return a, b, err
	}
	a, m.prev = m.prev, b
	return a, b, nil
}
func (m *Paired[T]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// Enumerated - Duo stream pairing a running index with each element.
type Enumerated[T any] struct {
	it Uno[T]
	i  int
}

func Enumerate[T any](it Uno[T]) *Enumerated[T] { return &Enumerated[T]{it: it} }
func (m *Enumerated[T]) HasNext() bool          { return m.it.HasNext() }
func (m *Enumerated[T]) Next() (int, T, error) {
	v, err := m.it.Next()
	if err != nil {
		return m.i, v, err
	}
	i := m.i
	m.i++
	return i, v, nil
}
func (m *Enumerated[T]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// Partition - splits one single-pass source into the elements satisfying pred and the rest,
// preserving order within each half. Both halves share the source: elements belonging to the
// half that is not currently consumed queue up in memory, so consumption skew grows the
// pending queues. Closing either half closes the shared source.
func Partition[T any](it Uno[T], pred func(T) bool) (matched, rest Uno[T]) {
	s := &partitionState[T]{it: it, pred: pred}
	if pred == nil {
		s.err = ErrNilFunc
	}
	return &PartitionUno[T]{s: s, want: true}, &PartitionUno[T]{s: s, want: false}
}

type partitionState[T any] struct {
	it      Uno[T]
	pred    func(T) bool
	yes, no []T
	err     error
	closed  bool
}

// fill - pull from the source until the wanted queue holds at least one element
func (s *partitionState[T]) fill(want bool) bool {
	q := &s.no
	if want {
		q = &s.yes
	}
	if len(*q) > 0 {
		return true
	}
	if s.err != nil {
		return false
	}
	for s.it.HasNext() {
		v, err := s.it.Next()
		if err != nil {
			s.err = err
			return false
		}
		if s.pred(v) {
			s.yes = append(s.yes, v)
			if want {
				return true
			}
		} else {
			s.no = append(s.no, v)
			if !want {
				return true
			}
		}
	}
	return false
}

type PartitionUno[T any] struct {
	s    *partitionState[T]
	want bool
}

func (m *PartitionUno[T]) HasNext() bool {
	return m.s.fill(m.want) || m.s.err != nil
}
func (m *PartitionUno[T]) Next() (v T, err error) {
	if m.s.fill(m.want) {
		q := &m.s.no
		if m.want {
			q = &m.s.yes
		}
		v = (*q)[0]
		*q = (*q)[1:]
		return v, nil
	}
	if m.s.err != nil {
		return v, m.s.err
	}
	return v, ErrIteratorExhausted
}
func (m *PartitionUno[T]) Close() {
	if m.s.closed {
		return
	}
	m.s.closed = true
	if x, ok := m.s.it.(Closer); ok {
		x.Close()
	}
}
