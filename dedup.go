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

// Deduped - map-backed seen-set behind Unique/UniqueBy: the first occurrence of each key is
// yielded, every later one suppressed, order preserved. The set grows with the number of
// distinct keys, without bound on unbounded streams.
type Deduped[T any, K comparable] struct {
	it      Uno[T]
	key     func(T) K
	seen    map[K]struct{}
	hasNext bool
	nextV   T
	err     error
}

// Unique - suppresses every element seen before, preserving first-occurrence order.
// Membership tests are O(1) average via an internal set.
func Unique[T comparable](it Uno[T]) *Deduped[T, T] {
	return UniqueBy(it, func(v T) T { return v })
}

// UniqueBy - like Unique, comparing elements by key(v) instead of the element itself.
func UniqueBy[T any, K comparable](it Uno[T], key func(T) K) *Deduped[T, K] {
	m := &Deduped[T, K]{it: it, key: key, seen: make(map[K]struct{})}
	if key == nil {
		m.err = ErrNilFunc
		return m
	}
	m.advance()
	return m
}

func (m *Deduped[T, K]) advance() {
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
		if _, ok := m.seen[k]; ok {
			continue
		}
		m.seen[k] = struct{}{}
		m.hasNext, m.nextV = true, v
		break
	}
}
func (m *Deduped[T, K]) HasNext() bool { return m.err != nil || m.hasNext }
func (m *Deduped[T, K]) Next() (v T, err error) {
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
func (m *Deduped[T, K]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// DedupedFunc - seen-list fallback for element types that cannot provide a comparable key:
// every candidate is compared against each element yielded so far. O(k) per element with k
// distinct elements yielded, vs O(1) average for the map-backed variants - callers that can
// derive a comparable key should prefer UniqueBy.
type DedupedFunc[T any] struct {
	it      Uno[T]
	eq      func(a, b T) bool
	seen    []T
	hasNext bool
	nextV   T
	err     error
}

func UniqueFunc[T any](it Uno[T], eq func(a, b T) bool) *DedupedFunc[T] {
	m := &DedupedFunc[T]{it: it, eq: eq}
	if eq == nil {
		m.err = ErrNilFunc
		return m
	}
	m.advance()
	return m
}

func (m *DedupedFunc[T]) advance() {
	if m.err != nil {
		return
	}
	m.hasNext = false
next:
	for m.it.HasNext() {
		v, err := m.it.Next()
		if err != nil {
			m.err = err
			return
		}
		for _, s := range m.seen {
			if m.eq(s, v) {
				continue next
			}
		}
		m.seen = append(m.seen, v)
		m.hasNext, m.nextV = true, v
		break
	}
}
func (m *DedupedFunc[T]) HasNext() bool { return m.err != nil || m.hasNext }
func (m *DedupedFunc[T]) Next() (v T, err error) {
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
func (m *DedupedFunc[T]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}
