// Copyright 2025 The Erigon Authors
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
	"fmt"
	"strings"
)

// DefaultPreviewLimit - max number of elements Inspected.String shows before eliding the
// middle of the stream.
const DefaultPreviewLimit = 20

// Inspected - step-through debugging adapter. It owns its source exclusively and moves
// through two states: active, then exhausted once the source runs dry. Next produces
// elements one at a time; String renders the remaining (not yet produced) elements without
// losing any of them.
//
// String materializes everything the source still holds into a replay buffer, so rendering
// is only safe on finite streams: on an unbounded source it will not terminate. Next stays
// safe on unbounded sources as long as String is never called.
type Inspected[T any] struct {
	it       Uno[T]
	buf      []T // filled by String, replayed by Next before the source is touched again
	pos      int
	consumed int
	limit    int
	err      error
}

// Inspect - wrap a stream for interactive consumption. limit <= 0 selects
// DefaultPreviewLimit.
func Inspect[T any](it Uno[T], limit int) *Inspected[T] {
	if it == nil {
		it = &Empty[T]{}
	}
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	return &Inspected[T]{it: it, limit: limit}
}

func (m *Inspected[T]) HasNext() bool {
	return m.pos < len(m.buf) || m.err != nil || m.it.HasNext()
}

// Next - produce one element and advance the cursor. Elements buffered by String replay
// first, in original order; a latched error surfaces only after they are drained. Past
// exhaustion it returns ErrIteratorExhausted - never a stale or zero element.
func (m *Inspected[T]) Next() (v T, err error) {
	if m.pos < len(m.buf) {
		v = m.buf[m.pos]
		m.pos++
		m.consumed++
		return v, nil
	}
	if m.err != nil {
		return v, m.err
	}
	if !m.it.HasNext() {
		return v, ErrIteratorExhausted
	}
	v, err = m.it.Next()
	if err != nil {
		m.err = err
		return v, err
	}
	m.consumed++
	return v, nil
}

// Consumed - cursor position: how many elements were produced so far.
func (m *Inspected[T]) Consumed() int { return m.consumed }

// Remaining - how many elements are left. Materializes the source like String.
func (m *Inspected[T]) Remaining() int {
	m.materialize()
	return len(m.buf) - m.pos
}

func (m *Inspected[T]) materialize() {
	if m.err != nil {
		return
	}
	rest, err := ToArray(m.it)
	if len(rest) > 0 {
		m.buf = append(m.buf, rest...)
	}
	if err != nil {
		m.err = err
	}
}

// String - render the remaining elements: all of them when at most limit remain, otherwise
// the first limit/2, a literal ellipsis, and the last limit/2, comma-joined and followed by
// the remaining count. Byte slices render as hex. Repeated calls do not re-consume anything.
func (m *Inspected[T]) String() string {
	m.materialize()
	rest := m.buf[m.pos:]
	n := len(rest)
	if n == 0 {
		if m.err != nil {
			return fmt.Sprintf("(error: %v)", m.err)
		}
		return "(empty)"
	}
	var b strings.Builder
	if n <= m.limit {
		writeElems(&b, rest)
	} else {
		h := m.limit / 2
		writeElems(&b, rest[:h])
		b.WriteString(", ..., ")
		writeElems(&b, rest[n-h:])
	}
	if n == 1 {
		b.WriteString("  (1 item in total)")
	} else {
		fmt.Fprintf(&b, "  (%d items in total)", n)
	}
	return b.String()
}

func writeElems[T any](b *strings.Builder, arr []T) {
	for i, v := range arr {
		if i > 0 {
			b.WriteString(", ")
		}
		switch typed := any(v).(type) {
		case []byte:
			fmt.Fprintf(b, "%x", typed)
		default:
			fmt.Fprintf(b, "%v", typed)
		}
	}
}

func (m *Inspected[T]) Close() {
	if x, ok := m.it.(Closer); ok {
		x.Close()
	}
}
