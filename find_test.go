package stream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/stream"
)

func even(v int) bool { return v%2 == 0 }

func TestFirst(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		v, err := stream.First[int](stream.Array([]int{5, 6, 7}))
		require.NoError(t, err)
		require.Equal(t, 5, v)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := stream.First[int](&stream.Empty[int]{})
		require.ErrorIs(t, err, stream.ErrEmptyStream)
	})
	t.Run("source error", func(t *testing.T) {
		_, err := stream.First[int](intsWithError(0))
		require.EqualError(t, err, "expected error at iteration: 0")
	})
	t.Run("default on empty", func(t *testing.T) {
		v, err := stream.FirstOr[int](&stream.Empty[int]{}, 42)
		require.NoError(t, err)
		require.Equal(t, 42, v)

		v, err = stream.FirstOr[int](stream.Array([]int{5}), 42)
		require.NoError(t, err)
		require.Equal(t, 5, v)
	})
	t.Run("default does not mask errors", func(t *testing.T) {
		_, err := stream.FirstOr[int](intsWithError(0), 42)
		require.EqualError(t, err, "expected error at iteration: 0")
	})
}

func TestLast(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		s := stream.Array([]int{5, 6, 7})
		v, err := stream.Last[int](s)
		require.NoError(t, err)
		require.Equal(t, 7, v)
		require.False(t, s.HasNext()) // fully consumed
	})
	t.Run("empty", func(t *testing.T) {
		_, err := stream.Last[int](&stream.Empty[int]{})
		require.ErrorIs(t, err, stream.ErrEmptyStream)
	})
	t.Run("default on empty", func(t *testing.T) {
		v, err := stream.LastOr[int](&stream.Empty[int]{}, 42)
		require.NoError(t, err)
		require.Equal(t, 42, v)
	})
	t.Run("source error", func(t *testing.T) {
		_, err := stream.Last[int](intsWithError(3))
		require.EqualError(t, err, "expected error at iteration: 3")
	})
}

func TestFirstTrue(t *testing.T) {
	t.Run("first match", func(t *testing.T) {
		v, err := stream.FirstTrue[int](stream.Array([]int{5, 7, 8, 9, 10}), even)
		require.NoError(t, err)
		require.Equal(t, 8, v)
	})
	t.Run("stops at the match", func(t *testing.T) {
		i := 0
		unbounded := stream.Generate(func() (int, error) { i++; return i, nil })
		v, err := stream.FirstTrue[int](unbounded, func(v int) bool { return v > 3 })
		require.NoError(t, err)
		require.Equal(t, 4, v)
		require.Equal(t, 4, i) // nothing pulled past the match
	})
	t.Run("no match", func(t *testing.T) {
		_, err := stream.FirstTrue[int](stream.Array([]int{1, 3, 5}), even)
		require.ErrorIs(t, err, stream.ErrNoMatch)
	})
	t.Run("nil pred", func(t *testing.T) {
		_, err := stream.FirstTrue[int](stream.Array([]int{1}), nil)
		require.ErrorIs(t, err, stream.ErrNilFunc)
	})
	t.Run("default on no match", func(t *testing.T) {
		v, err := stream.FirstTrueOr[int](stream.Array([]int{1, 3, 5}), even, -1)
		require.NoError(t, err)
		require.Equal(t, -1, v)
	})
	t.Run("source error", func(t *testing.T) {
		_, err := stream.FirstTrue[int](intsWithError(2), func(int) bool { return false })
		require.EqualError(t, err, "expected error at iteration: 2")
	})
}

func TestFirstFalse(t *testing.T) {
	t.Run("first miss", func(t *testing.T) {
		v, err := stream.FirstFalse[int](stream.Array([]int{2, 4, 5, 6}), even)
		require.NoError(t, err)
		require.Equal(t, 5, v)
	})
	t.Run("all match", func(t *testing.T) {
		_, err := stream.FirstFalse[int](stream.Array([]int{2, 4}), even)
		require.ErrorIs(t, err, stream.ErrNoMatch)
	})
	t.Run("nil pred", func(t *testing.T) {
		_, err := stream.FirstFalse[int](stream.Array([]int{1}), nil)
		require.ErrorIs(t, err, stream.ErrNilFunc)
	})
	t.Run("default on all match", func(t *testing.T) {
		v, err := stream.FirstFalseOr[int](stream.Array([]int{2, 4}), even, -1)
		require.NoError(t, err)
		require.Equal(t, -1, v)
	})
}

func TestLastTrue(t *testing.T) {
	t.Run("last match", func(t *testing.T) {
		v, err := stream.LastTrue[int](stream.Array([]int{2, 5, 6, 7}), even)
		require.NoError(t, err)
		require.Equal(t, 6, v)
	})
	t.Run("no match", func(t *testing.T) {
		_, err := stream.LastTrue[int](stream.Array([]int{1, 3}), even)
		require.ErrorIs(t, err, stream.ErrNoMatch)
	})
	t.Run("nil pred", func(t *testing.T) {
		_, err := stream.LastTrue[int](stream.Array([]int{1}), nil)
		require.ErrorIs(t, err, stream.ErrNilFunc)
	})
	t.Run("default on no match", func(t *testing.T) {
		v, err := stream.LastTrueOr[int](stream.Array([]int{1, 3}), even, -1)
		require.NoError(t, err)
		require.Equal(t, -1, v)
	})
	t.Run("match before the error is not returned", func(t *testing.T) {
		// 0 satisfies the predicate, but the stream fails before its end is known
		_, err := stream.LastTrue[int](intsWithError(2), even)
		require.EqualError(t, err, "expected error at iteration: 2")
	})
}

func TestLastFalse(t *testing.T) {
	t.Run("last miss", func(t *testing.T) {
		v, err := stream.LastFalse[int](stream.Array([]int{1, 2, 3, 4}), even)
		require.NoError(t, err)
		require.Equal(t, 3, v)
	})
	t.Run("all match", func(t *testing.T) {
		_, err := stream.LastFalse[int](stream.Array([]int{2, 4}), even)
		require.ErrorIs(t, err, stream.ErrNoMatch)
	})
	t.Run("default on all match", func(t *testing.T) {
		v, err := stream.LastFalseOr[int](stream.Array([]int{2, 4}), even, -1)
		require.NoError(t, err)
		require.Equal(t, -1, v)
	})
}

func TestNth(t *testing.T) {
	t.Run("offsets", func(t *testing.T) {
		v, err := stream.Nth[int](stream.Range(10, 20), 0)
		require.NoError(t, err)
		require.Equal(t, 10, v)

		v, err = stream.Nth[int](stream.Range(10, 20), 9)
		require.NoError(t, err)
		require.Equal(t, 19, v)
	})
	t.Run("past the end", func(t *testing.T) {
		_, err := stream.Nth[int](stream.Range(10, 20), 10)
		require.ErrorIs(t, err, stream.ErrOutOfRange)
	})
	t.Run("negative", func(t *testing.T) {
		_, err := stream.Nth[int](stream.Array([]int{1}), -1)
		require.ErrorIs(t, err, stream.ErrNegativeCount)
	})
	t.Run("default past the end", func(t *testing.T) {
		v, err := stream.NthOr[int](stream.Array([]int{1, 2}), 5, -1)
		require.NoError(t, err)
		require.Equal(t, -1, v)
	})
	t.Run("default does not mask negative offsets", func(t *testing.T) {
		_, err := stream.NthOr[int](stream.Array([]int{1}), -1, 0)
		require.ErrorIs(t, err, stream.ErrNegativeCount)
	})
}
