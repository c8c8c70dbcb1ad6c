// Copyright 2021 The Erigon Authors
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
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/exp/constraints"

	"github.com/erigontech/erigon-lib/log/v3"
)

type (
	Empty[T any]       struct{}
	EmptyDuo[K, V any] struct{}
)

func (Empty[T]) HasNext() bool                     { return false }
func (Empty[T]) Next() (v T, err error)            { return v, ErrIteratorExhausted }
func (Empty[T]) Close()                            {}
func (EmptyDuo[K, V]) HasNext() bool               { return false }
func (EmptyDuo[K, V]) Next() (k K, v V, err error) { return k, v, ErrIteratorExhausted }
func (EmptyDuo[K, V]) Close()                      {}

type ArrStream[V any] struct {
	arr []V
	i   int
}

func ReverseArray[V any](arr []V) *ArrStream[V] {
	arr = slices.Clone(arr)
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
	return Array(arr)
}
func Array[V any](arr []V) *ArrStream[V] { return &ArrStream[V]{arr: arr} }
func (it *ArrStream[V]) HasNext() bool   { return it.i < len(it.arr) }
func (it *ArrStream[V]) Close()          {}
func (it *ArrStream[V]) Next() (v V, err error) {
	if it.i >= len(it.arr) {
		return v, ErrIteratorExhausted
	}
	v = it.arr[it.i]
	it.i++
	return v, nil
}

// NextBatch - drain all remaining elements in one call. Buffering combinators (Cycle, Reverse,
// Tail) use it as a fast path instead of pulling element-wise.
func (it *ArrStream[V]) NextBatch() ([]V, error) {
	v := it.arr[it.i:]
	it.i = len(it.arr)
	return v, nil
}

func Range[T constraints.Integer](from, to T) *RangeIter[T] {
	return &RangeIter[T]{i: from, to: to}
}

type RangeIter[T constraints.Integer] struct {
	i, to T
}

func (it *RangeIter[T]) HasNext() bool { return it.i < it.to }
func (it *RangeIter[T]) Close()        {}
func (it *RangeIter[T]) Next() (T, error) {
	v := it.i
	it.i++
	return v, nil
}

func ReverseRange[T constraints.Integer](from, to T) *ReverseRangeIter[T] {
	return &ReverseRangeIter[T]{i: from, to: to}
}

type ReverseRangeIter[T constraints.Integer] struct {
	i, to T
}

func (it *ReverseRangeIter[T]) HasNext() bool { return it.i > it.to }
func (it *ReverseRangeIter[T]) Close()        {}
func (it *ReverseRangeIter[T]) Next() (T, error) {
	v := it.i
	it.i--
	return v, nil
}

// StepRange - half-open interval [from, to) visited with the given stride. Negative step walks
// downward, like ReverseRange. Zero step is latched as ErrZeroStep.
func StepRange[T constraints.Integer](from, to, step T) *StepRangeIter[T] {
	it := &StepRangeIter[T]{i: from, to: to, step: step}
	if step == 0 {
		it.err = ErrZeroStep
	}
	return it
}

type StepRangeIter[T constraints.Integer] struct {
	i, to, step T
	err         error
}

func (it *StepRangeIter[T]) HasNext() bool {
	if it.err != nil {
		return true
	}
	if it.step > 0 {
		return it.i < it.to
	}
	return it.i > it.to
}
func (it *StepRangeIter[T]) Close() {}
func (it *StepRangeIter[T]) Next() (v T, err error) {
	if it.err != nil {
		return v, it.err
	}
	if !it.HasNext() {
		return v, ErrIteratorExhausted
	}
	v = it.i
	it.i += it.step
	return v, nil
}

type UnionUno[T cmp.Ordered] struct {
	x, y           Uno[T]
	order          Order
	xHas, yHas     bool
	xNextK, yNextK T
	err            error
	limit          int
}

// Union - returns all elements that are in A, or in B, or in both. When duplicate elements -
// first stream (x) takes precedence. Both inputs must be sorted in the given order.
// negative limit means unlimited.
// in Set Theory: A ∪ B = {x | x ∈ A ∨ x ∈ B}
func Union[T cmp.Ordered](x, y Uno[T], order Order, limit int) Uno[T] {
	if x == nil && y == nil {
		return &Empty[T]{}
	}
	if x == nil {
		return clip(y, limit)
	}
	if y == nil {
		return clip(x, limit)
	}
	if !x.HasNext() {
		return clip(y, limit)
	}
	if !y.HasNext() {
		return clip(x, limit)
	}
	m := &UnionUno[T]{x: x, y: y, order: order, limit: limit}
	m.advanceX()
	m.advanceY()
	return m
}

// clip - degenerate single-sided set operations still honor the limit
func clip[T any](it Uno[T], limit int) Uno[T] {
	if limit < 0 {
		return it
	}
	return Head(it, limit)
}

func (m *UnionUno[T]) HasNext() bool {
	return m.err != nil || (m.limit != 0 && m.xHas) || (m.limit != 0 && m.yHas)
}
func (m *UnionUno[T]) advanceX() {
	if m.err != nil {
		return
	}
	m.xHas = m.x.HasNext()
	if m.xHas {
		m.xNextK, m.err = m.x.Next()
	}
}
func (m *UnionUno[T]) advanceY() {
	if m.err != nil {
		return
	}
	m.yHas = m.y.HasNext()
	if m.yHas {
		m.yNextK, m.err = m.y.Next()
	}
}

func (m *UnionUno[T]) less() bool {
	return (m.order == Asc && m.xNextK < m.yNextK) || (m.order == Desc && m.xNextK > m.yNextK)
}

func (m *UnionUno[T]) Next() (res T, err error) {
	if m.err != nil {
		return res, m.err
	}
	m.limit--
	if m.xHas && m.yHas {
		if m.less() {
			k, err := m.xNextK, m.err
			m.advanceX()
			return k, err
		} else if m.xNextK == m.yNextK {
			k, err := m.xNextK, m.err
			m.advanceX()
			m.advanceY()
			return k, err
		}
		k, err := m.yNextK, m.err
		m.advanceY()
		return k, err
	}
	if m.xHas {
		k, err := m.xNextK, m.err
		m.advanceX()
		return k, err
	}
	k, err := m.yNextK, m.err
	m.advanceY()
	return k, err
}
func (m *UnionUno[T]) Close() {
	if x, ok := m.x.(Closer); ok {
		x.Close()
	}
	if y, ok := m.y.(Closer); ok {
		y.Close()
	}
}

// Intersected
type Intersected[T cmp.Ordered] struct {
	x, y               Uno[T]
	xHasNext, yHasNext bool
	xNextK, yNextK     T
	order              Order
	limit              int
	err                error
}

// Intersect - returns only elements that exist in BOTH A AND B. Both inputs must be sorted in
// the given order. negative limit means unlimited.
// Set Theory Definition: A ∩ B = {x | x ∈ A ∧ x ∈ B}
func Intersect[T cmp.Ordered](x, y Uno[T], order Order, limit int) Uno[T] {
	if x == nil || y == nil || !x.HasNext() || !y.HasNext() {
		return &Empty[T]{}
	}
	m := &Intersected[T]{x: x, y: y, order: order, limit: limit}
	m.advance()
	return m
}
func (m *Intersected[T]) HasNext() bool {
	return m.err != nil || (m.limit != 0 && m.xHasNext && m.yHasNext)
}
func (m *Intersected[T]) advance() {
	m.advanceX()
	m.advanceY()
	for m.xHasNext && m.yHasNext {
		if m.err != nil {
			break
		}
		if m.xNextK == m.yNextK {
			return
		}
		if (m.order == Asc) == (m.xNextK < m.yNextK) {
			m.advanceX()
		} else {
			m.advanceY()
		}
	}
	m.xHasNext = false
}

func (m *Intersected[T]) advanceX() {
	if m.err != nil {
		return
	}
	m.xHasNext = m.x.HasNext()
	if m.xHasNext {
		m.xNextK, m.err = m.x.Next()
	}
}
func (m *Intersected[T]) advanceY() {
	if m.err != nil {
		return
	}
	m.yHasNext = m.y.HasNext()
	if m.yHasNext {
		m.yNextK, m.err = m.y.Next()
	}
}
func (m *Intersected[T]) Next() (T, error) {
	if m.err != nil {
		return m.xNextK, m.err
	}
	m.limit--
	k, err := m.xNextK, m.err
	m.advance()
	return k, err
}
func (m *Intersected[T]) Close() {
	if x, ok := m.x.(Closer); ok {
		x.Close()
	}
	if y, ok := m.y.(Closer); ok {
		y.Close()
	}
}

// UnionDuoIter - merge 2 Duo streams, both sorted by key under cmpFn, into 1. 1-st stream
// has higher priority - when 2 streams return same key. negative limit means unlimited.
type UnionDuoIter[K, V any] struct {
	x, y               Duo[K, V]
	cmpFn              func(K, K) int
	xHasNext, yHasNext bool
	xNextK, yNextK     K
	xNextV, yNextV     V
	limit              int
	err                error
}

func UnionDuo[K, V any](x, y Duo[K, V], cmpFn func(K, K) int, limit int) Duo[K, V] {
	if cmpFn == nil {
		return &UnionDuoIter[K, V]{err: ErrNilFunc}
	}
	if x == nil && y == nil {
		return &EmptyDuo[K, V]{}
	}
	if x == nil {
		return y
	}
	if y == nil {
		return x
	}
	m := &UnionDuoIter[K, V]{x: x, y: y, cmpFn: cmpFn, limit: limit}
	m.advanceX()
	m.advanceY()
	return m
}
func (m *UnionDuoIter[K, V]) HasNext() bool {
	return m.err != nil || (m.limit != 0 && m.xHasNext) || (m.limit != 0 && m.yHasNext)
}
func (m *UnionDuoIter[K, V]) advanceX() {
	if m.err != nil {
		return
	}
	m.xHasNext = m.x.HasNext()
	if m.xHasNext {
		m.xNextK, m.xNextV, m.err = m.x.Next()
	}
}
func (m *UnionDuoIter[K, V]) advanceY() {
	if m.err != nil {
		return
	}
	m.yHasNext = m.y.HasNext()
	if m.yHasNext {
		m.yNextK, m.yNextV, m.err = m.y.Next()
	}
}
func (m *UnionDuoIter[K, V]) Next() (k K, v V, err error) {
	if m.err != nil {
		return k, v, m.err
	}
	m.limit--
	if m.xHasNext && m.yHasNext {
		cmp := m.cmpFn(m.xNextK, m.yNextK)
		if cmp < 0 {
			k, v, err := m.xNextK, m.xNextV, m.err
			m.advanceX()
			return k, v, err
		} else if cmp == 0 {
			k, v, err := m.xNextK, m.xNextV, m.err
			m.advanceX()
			m.advanceY()
			return k, v, err
		}
		k, v, err := m.yNextK, m.yNextV, m.err
		m.advanceY()
		return k, v, err
	}
	if m.xHasNext {
		k, v, err := m.xNextK, m.xNextV, m.err
		m.advanceX()
		return k, v, err
	}
	k, v, err = m.yNextK, m.yNextV, m.err
	m.advanceY()
	return k, v, err
}
func (m *UnionDuoIter[K, V]) Close() {
	if x, ok := m.x.(Closer); ok {
		x.Close()
	}
	if y, ok := m.y.(Closer); ok {
		y.Close()
	}
}

// Transformed - analog `map` (in terms of map-filter-reduce pattern)
type Transformed[T, U any] struct {
	it        Uno[T]
	transform func(T) (U, error)
	err       error
}

func Transform[T, U any](it Uno[T], transform func(T) (U, error)) *Transformed[T, U] {
	m := &Transformed[T, U]{it: it, transform: transform}
	if transform == nil {
		m.err = ErrNilFunc
	}
	return m
}
func (m *Transformed[T, U]) HasNext() bool { return m.err != nil || m.it.HasNext() }
func (m *Transformed[T, U]) Next() (v U, err error) {
	if m.err != nil {
		return v, m.err
	}
	k, err := m.it.Next()
	if err != nil {
		m.err = err
		return v, err
	}
	v, err = m.transform(k)
	if err != nil {
		m.err = err
	}
	return v, err
}
func (m *Transformed[T, U]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// TransformedDuo - analog `map` (in terms of map-filter-reduce pattern)
type TransformedDuo[K, V any] struct {
	it        Duo[K, V]
	transform func(K, V) (K, V, error)
	err       error
}

func TransformDuo[K, V any](it Duo[K, V], transform func(K, V) (K, V, error)) *TransformedDuo[K, V] {
	m := &TransformedDuo[K, V]{it: it, transform: transform}
	if transform == nil {
		m.err = ErrNilFunc
	}
	return m
}
func (m *TransformedDuo[K, V]) HasNext() bool { return m.err != nil || m.it.HasNext() }
func (m *TransformedDuo[K, V]) Next() (k K, v V, err error) {
	if m.err != nil {
		return k, v, m.err
	}
	k, v, err = m.it.Next()
	if err != nil {
		m.err = err
		return k, v, err
	}
	k, v, err = m.transform(k, v)
	if err != nil {
		m.err = err
	}
	return k, v, err
}
func (m *TransformedDuo[K, v]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// Filtered - analog `filter` (in terms of map-filter-reduce pattern)
// please avoid reading more elements from an expensive source and then filtering them here.
// Better push-down filter conditions to the source to reduce the amount produced.
type Filtered[T any] struct {
	it      Uno[T]
	filter  func(T) bool
	hasNext bool
	err     error
	nextK   T
}

func Filter[T any](it Uno[T], filter func(T) bool) *Filtered[T] {
	i := &Filtered[T]{it: it, filter: filter}
	if filter == nil {
		i.err = ErrNilFunc
		return i
	}
	i.advance()
	return i
}
func (m *Filtered[T]) advance() {
	if m.err != nil {
		return
	}
	m.hasNext = false
	for m.it.HasNext() {
		// create new variables, to avoid leaking outside of loop
		key, err := m.it.Next()
		if err != nil {
			m.err = err
			return
		}
		if m.filter(key) {
			m.hasNext, m.nextK = true, key
			break
		}
	}
}
func (m *Filtered[T]) HasNext() bool { return m.err != nil || m.hasNext }
func (m *Filtered[T]) Next() (k T, err error) {
	if m.err != nil {
		return k, m.err
	}
	if !m.hasNext {
		return k, ErrIteratorExhausted
	}
	k, err = m.nextK, m.err
	m.advance()
	return k, err
}
func (m *Filtered[T]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// FilteredDuo - Duo analog of Filtered
type FilteredDuo[K, V any] struct {
	it      Duo[K, V]
	filter  func(K, V) bool
	hasNext bool
	err     error
	nextK   K
	nextV   V
}

func FilterDuo[K, V any](it Duo[K, V], filter func(K, V) bool) *FilteredDuo[K, V] {
	i := &FilteredDuo[K, V]{it: it, filter: filter}
	if filter == nil {
		i.err = ErrNilFunc
		return i
	}
	i.advance()
	return i
}
func (m *FilteredDuo[K, V]) advance() {
	if m.err != nil {
		return
	}
	m.hasNext = false
	for m.it.HasNext() {
		// create new variables, to avoid leaking outside of loop
		key, val, err := m.it.Next()
		if err != nil {
			m.err = err
			return
		}
		if m.filter(key, val) {
			m.hasNext = true
			m.nextK, m.nextV = key, val
			break
		}
	}
}
func (m *FilteredDuo[K, V]) HasNext() bool { return m.err != nil || m.hasNext }
func (m *FilteredDuo[K, V]) Next() (k K, v V, err error) {
	if m.err != nil {
		return k, v, m.err
	}
	if !m.hasNext {
		return k, v, ErrIteratorExhausted
	}
	k, v, err = m.nextK, m.nextV, m.err
	m.advance()
	return k, v, err
}
func (m *FilteredDuo[K, v]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}

// Paginated - lazy stream over a paged source: the next page is requested only when the
// current one is drained. The page callback receives the page token ("" for the first page)
// and returns the token of the following page; "" means no further pages.
type Paginated[T any] struct {
	arr           []T
	i             int
	err           error
	nextPage      NextPageUno[T]
	nextPageToken string
	initialized   bool
}

func Paginate[T any](f NextPageUno[T]) *Paginated[T] { return &Paginated[T]{nextPage: f} }
func (it *Paginated[T]) HasNext() bool {
	if it.err != nil || it.i < len(it.arr) {
		return true
	}
	if it.initialized && it.nextPageToken == "" {
		return false
	}
	it.initialized = true
	it.i = 0
	it.arr, it.nextPageToken, it.err = it.nextPage(it.nextPageToken)
	return it.err != nil || it.i < len(it.arr)
}
func (it *Paginated[T]) Close() {}
func (it *Paginated[T]) Next() (v T, err error) {
	if it.err != nil {
		return v, it.err
	}
	v = it.arr[it.i]
	it.i++
	return v, nil
}

type PaginatedDuo[K, V any] struct {
	keys          []K
	values        []V
	i             int
	err           error
	nextPage      NextPageDuo[K, V]
	nextPageToken string
	initialized   bool
}

func PaginateDuo[K, V any](f NextPageDuo[K, V]) *PaginatedDuo[K, V] {
	return &PaginatedDuo[K, V]{nextPage: f}
}
func (it *PaginatedDuo[K, V]) HasNext() bool {
	if it.err != nil || it.i < len(it.keys) {
		return true
	}
	if it.initialized && it.nextPageToken == "" {
		return false
	}
	it.initialized = true
	it.i = 0
	it.keys, it.values, it.nextPageToken, it.err = it.nextPage(it.nextPageToken)
	return it.err != nil || it.i < len(it.keys)
}
func (it *PaginatedDuo[K, V]) Close() {}
func (it *PaginatedDuo[K, V]) Next() (k K, v V, err error) {
	if it.err != nil {
		return k, v, it.err
	}
	k, v = it.keys[it.i], it.values[it.i]
	it.i++
	return k, v, nil
}

// ---- tracing ----

// Traced - does `log.Warn` on every call. Debugging aid for long pipelines; byte slices are
// logged as hex.
type Traced[T any] struct {
	it     Uno[T]
	logger log.Logger
	prefix string
}

func Trace[T any](it Uno[T], logger log.Logger, prefix string) *Traced[T] {
	if logger == nil {
		logger = log.Root()
	}
	return &Traced[T]{it: it, logger: logger, prefix: prefix}
}
func (m *Traced[T]) HasNext() bool {
	res := m.it.HasNext()
	m.logger.Warn(m.prefix, "hasNext", res)
	return res
}
func (m *Traced[T]) Next() (k T, err error) {
	k, err = m.it.Next()
	switch typedK := any(k).(type) {
	case []byte:
		m.logger.Warn(m.prefix, "next", fmt.Sprintf("%x", typedK))
	default:
		m.logger.Warn(m.prefix, "next", typedK)
	}
	return k, err
}
func (m *Traced[T]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}
