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

import "errors"

// Streams - iterator-like composable high-level abstraction:
//   - lazy: one element produced per pull, nothing happens until the caller asks
//   - return errors instead of panics
//   - batch-friendly
//   - single-owner, single-consumer: a stream is consumed at most once, in order.
//     Concurrent access to one stream is undefined - caller responsibility to serialize.
//
//	for s.HasNext() {
//		v, err := s.Next()
//		if err != nil {
//			return err
//		}
//	}
//
//	Invariants:
//	 1. HasNext() is Idempotent - and never consumes an element
//	 2. K, V are valid at-least 2 .Next() calls! It allows zero-copy composition of streams. Example: stream.Union
//	    - 1 value used by User and 1 value used internally by the combinator
//	 3. Next() past exhaustion returns ErrIteratorExhausted - not a stale or zero value
//	 4. combinators latch errors: after a failed pull HasNext() stays true and every following
//	    Next() returns the same error. Elements buffered before the failure are delivered
//	    first, in original order.
//	 5. lazy constructors latch argument-validation errors the same way, so bad arguments
//	    surface on the first pull, before any element is produced

// Indicates the iterator has no more elements. Meant to be returned by implementations of Next()
// when there are no more elements.
var ErrIteratorExhausted = errors.New("iterator exhausted")

var (
	// ErrEmptyStream - a terminal search (First, Last, Nth) ran on a stream that produced
	// nothing and no default was supplied.
	ErrEmptyStream = errors.New("stream is empty")
	// ErrNoMatch - no element satisfied the predicate and no default was supplied.
	ErrNoMatch = errors.New("no element satisfies the predicate")
	// ErrOutOfRange - requested offset lies past the end of the stream.
	ErrOutOfRange = errors.New("offset out of range")
)

// Argument-validation errors. Distinct from exhaustion: lazy constructors latch them into the
// returned stream, terminal operations return them directly.
var (
	ErrNegativeCount = errors.New("count must be non-negative")
	ErrZeroStep      = errors.New("step must not be zero")
	ErrNilFunc       = errors.New("func argument must not be nil")
)

// Uno - return 1 item. Example:
//
//	for s.HasNext() {
//		v, err := s.Next()
//		if err != nil {
//			return err
//		}
//	}
type Uno[V any] interface {
	Next() (V, error)
	//NextBatch() ([]V, error)
	HasNext() bool
	Close()
}

// Duo - return 2 items - usually called Key and Value (or `k` and `v`)
// Example:
//
//	for s.HasNext() {
//		k, v, err := s.Next()
//		if err != nil {
//			return err
//		}
//	}
type Duo[K, V any] interface {
	Next() (K, V, error)
	HasNext() bool
	Close()
}

type Closer interface {
	Close()
}

// Order - direction of an ordered stream. Union and Intersect require both inputs
// to be sorted the same way.
type Order bool

const (
	Asc  Order = true
	Desc Order = false
)

// Page callbacks for Paginate/PaginateDuo. The string in and out is the page token:
// "" requests the first page, "" returned means no further pages.
type (
	NextPageUno[T any]    func(pageToken string) (arr []T, nextPageToken string, err error)
	NextPageDuo[K, V any] func(pageToken string) (keys []K, values []V, nextPageToken string, err error)
)
