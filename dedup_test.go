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

package stream_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/stream"
)

func TestUnique(t *testing.T) {
	t.Run("first occurrence wins", func(t *testing.T) {
		s := stream.Unique[string](stream.Array([]string{"B", "C", "A", "D", "A", "B", "C", "E"}))
		//idempotency
		require.True(t, s.HasNext())
		require.True(t, s.HasNext())
		res, err := stream.ToArray[string](s)
		require.NoError(t, err)
		require.Equal(t, []string{"B", "C", "A", "D", "E"}, res)
		require.False(t, s.HasNext())
		_, err = s.Next()
		require.ErrorIs(t, err, stream.ErrIteratorExhausted)
	})
	t.Run("all duplicates", func(t *testing.T) {
		res, err := stream.ToArray[int](stream.Unique[int](stream.Array([]int{7, 7, 7})))
		require.NoError(t, err)
		require.Equal(t, []int{7}, res)
	})
	t.Run("empty", func(t *testing.T) {
		require.False(t, stream.Unique[int](&stream.Empty[int]{}).HasNext())
	})
	t.Run("source error is latched", func(t *testing.T) {
		s := stream.Unique[uint64](u64WithError(3))
		res, err := stream.ToArrayU64(s)
		require.EqualError(t, err, "expected error at iteration: 3")
		require.Equal(t, []uint64{1, 2, 3}, res)
		require.True(t, s.HasNext())
		_, err2 := s.Next()
		require.Equal(t, err, err2)
	})
}

func TestUniqueBy(t *testing.T) {
	t.Run("key projection", func(t *testing.T) {
		s := stream.UniqueBy[int, int](stream.Array([]int{1, 2, 3, 4, 5, 6}), func(v int) int { return v % 3 })
		res, err := stream.ToArray[int](s)
		require.NoError(t, err)
		require.Equal(t, []int{1, 2, 3}, res)
	})
	t.Run("nil key is latched", func(t *testing.T) {
		s := stream.UniqueBy[int, int](stream.Array([]int{1}), nil)
		require.True(t, s.HasNext())
		_, err := s.Next()
		require.ErrorIs(t, err, stream.ErrNilFunc)
	})
}

func TestUniqueFunc(t *testing.T) {
	t.Run("equality fallback", func(t *testing.T) {
		s := stream.UniqueFunc[string](stream.Array([]string{"a", "A", "b", "B", "a"}), strings.EqualFold)
		res, err := stream.ToArray[string](s)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, res)
	})
	t.Run("matches the map-backed variant", func(t *testing.T) {
		arr := []int{3, 1, 3, 2, 1, 2, 4}
		viaMap, err := stream.ToArray[int](stream.Unique[int](stream.Array(arr)))
		require.NoError(t, err)
		viaEq, err2 := stream.ToArray[int](stream.UniqueFunc[int](stream.Array(arr), func(a, b int) bool { return a == b }))
		require.NoError(t, err2)
		require.Equal(t, viaMap, viaEq)
	})
	t.Run("nil eq is latched", func(t *testing.T) {
		_, err := stream.UniqueFunc[int](stream.Array([]int{1}), nil).Next()
		require.ErrorIs(t, err, stream.ErrNilFunc)
	})
}

func TestUniqueU64(t *testing.T) {
	t.Run("bitmap seen-set", func(t *testing.T) {
		s := stream.UniqueU64(stream.Array[uint64]([]uint64{5, 1, 5, 2, 1, 1 << 40, 1 << 40}))
		res, err := stream.ToArrayU64(s)
		require.NoError(t, err)
		require.Equal(t, []uint64{5, 1, 2, 1 << 40}, res)
		_, err = s.Next()
		require.ErrorIs(t, err, stream.ErrIteratorExhausted)
	})
	t.Run("source error is latched", func(t *testing.T) {
		s := stream.UniqueU64(u64WithError(2))
		res, err := stream.ToArrayU64(s)
		require.EqualError(t, err, "expected error at iteration: 2")
		require.Equal(t, []uint64{1, 2}, res)
	})
}
