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

package stream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/stream"
)

func TestInspectStepThrough(t *testing.T) {
	it := stream.Inspect[int64](stream.StepRange[int64](0, 60, 3), 0)
	require.Zero(t, it.Consumed())
	require.Equal(t, 20, it.Remaining())
	require.Equal(t,
		"0, 3, 6, 9, 12, 15, 18, 21, 24, 27, 30, 33, 36, 39, 42, 45, 48, 51, 54, 57  (20 items in total)",
		it.String())

	// rendering buffered everything; the cursor now replays the buffer
	for i, want := range []int64{0, 3, 6} {
		v, err := it.Next()
		require.NoError(t, err)
		require.Equal(t, want, v)
		require.Equal(t, i+1, it.Consumed())
		require.Equal(t, 19-i, it.Remaining())
	}
	require.Equal(t,
		"9, 12, 15, 18, 21, 24, 27, 30, 33, 36, 39, 42, 45, 48, 51, 54, 57  (17 items in total)",
		it.String())
}

func TestInspectString(t *testing.T) {
	t.Run("at most limit elements render in full", func(t *testing.T) {
		require.Equal(t, "1, 2, 3  (3 items in total)",
			stream.Inspect[int](stream.Array([]int{1, 2, 3}), 10).String())
	})
	t.Run("middle elided over the limit", func(t *testing.T) {
		require.Equal(t, "0, 1, 2, ..., 97, 98, 99  (100 items in total)",
			stream.Inspect[int](stream.Range(0, 100), 6).String())
	})
	t.Run("limit zero selects the default", func(t *testing.T) {
		require.Equal(t,
			"0, 1, 2, 3, 4, 5, 6, 7, 8, 9, ..., 90, 91, 92, 93, 94, 95, 96, 97, 98, 99  (100 items in total)",
			stream.Inspect[int](stream.Range(0, 100), 0).String())
	})
	t.Run("single item", func(t *testing.T) {
		require.Equal(t, "7  (1 item in total)",
			stream.Inspect[int](stream.Array([]int{7}), 5).String())
	})
	t.Run("empty", func(t *testing.T) {
		require.Equal(t, "(empty)", stream.Inspect[int](&stream.Empty[int]{}, 5).String())
	})
	t.Run("nil source", func(t *testing.T) {
		it := stream.Inspect[int](nil, 5)
		require.Equal(t, "(empty)", it.String())
		require.False(t, it.HasNext())
	})
	t.Run("byte slices render as hex", func(t *testing.T) {
		it := stream.Inspect[[]byte](stream.Array([][]byte{{0xde, 0xad}, {0xbe, 0xef}}), 5)
		require.Equal(t, "dead, beef  (2 items in total)", it.String())
	})
	t.Run("repeated calls lose nothing", func(t *testing.T) {
		it := stream.Inspect[int](stream.Array([]int{1, 2, 3}), 10)
		require.Equal(t, it.String(), it.String())
		res, err := stream.ToArray[int](it)
		require.NoError(t, err)
		require.Equal(t, []int{1, 2, 3}, res)
	})
}

func TestInspectNext(t *testing.T) {
	t.Run("past exhaustion", func(t *testing.T) {
		it := stream.Inspect[int](stream.Array([]int{1}), 0)
		v, err := it.Next()
		require.NoError(t, err)
		require.Equal(t, 1, v)
		require.False(t, it.HasNext())
		_, err = it.Next()
		require.ErrorIs(t, err, stream.ErrIteratorExhausted)
		_, err = it.Next()
		require.ErrorIs(t, err, stream.ErrIteratorExhausted)
		require.Equal(t, 1, it.Consumed())
	})
	t.Run("buffered elements precede a latched error", func(t *testing.T) {
		it := stream.Inspect[uint64](u64WithError(2), 0)
		require.Equal(t, "1, 2  (2 items in total)", it.String())

		v, err := it.Next()
		require.NoError(t, err)
		require.Equal(t, uint64(1), v)
		v, err = it.Next()
		require.NoError(t, err)
		require.Equal(t, uint64(2), v)

		require.True(t, it.HasNext())
		_, err = it.Next()
		require.EqualError(t, err, "expected error at iteration: 2")
		_, err2 := it.Next()
		require.Equal(t, err, err2)
		require.Equal(t, 2, it.Consumed()) // failed pulls do not advance the cursor
		require.Equal(t, "(error: expected error at iteration: 2)", it.String())
	})
}
