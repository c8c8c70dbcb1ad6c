package stream

import (
	g "github.com/anacrolix/generics"
)

// Searches are terminal: they consume the stream they scan. Element variants (First, Last,
// Nth) fail with ErrEmptyStream or ErrOutOfRange, predicate variants with ErrNoMatch; each
// has an ...Or form that returns a caller-supplied default instead of failing.

func alwaysTrue[T any](T) bool { return true }

func not[T any](pred func(T) bool) func(T) bool {
	return func(v T) bool { return !pred(v) }
}

func unwrap[T any](opt g.Option[T], err, missing error) (v T, _ error) {
	if err != nil {
		return v, err
	}
	if !opt.Ok {
		return v, missing
	}
	return opt.Value, nil
}

// scanFirst - first element satisfying pred. Stops at the first match, so it is safe on
// unbounded streams that contain one.
func scanFirst[T any](it Uno[T], pred func(T) bool) (g.Option[T], error) {
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			return g.None[T](), err
		}
		if pred(v) {
			return g.Some(v), nil
		}
	}
	return g.None[T](), nil
}

// scanLast - last element satisfying pred. Consumes the whole stream: unbounded time on
// unbounded sources, O(1) extra memory, no partial result on failure.
func scanLast[T any](it Uno[T], pred func(T) bool) (g.Option[T], error) {
	res := g.None[T]()
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			return g.None[T](), err
		}
		if pred(v) {
			res = g.Some(v)
		}
	}
	return res, nil
}

// First - the first element of a stream. ErrEmptyStream when it produces nothing.
func First[T any](it Uno[T]) (T, error) {
	opt, err := scanFirst(it, alwaysTrue[T])
	return unwrap(opt, err, ErrEmptyStream)
}

// FirstOr - like First, but an empty stream yields dflt instead of ErrEmptyStream.
func FirstOr[T any](it Uno[T], dflt T) (v T, _ error) {
	opt, err := scanFirst(it, alwaysTrue[T])
	if err != nil {
		return v, err
	}
	return opt.UnwrapOr(dflt), nil
}

// Last - the final element of a stream. Consumes the whole stream (see scanLast).
func Last[T any](it Uno[T]) (T, error) {
	opt, err := scanLast(it, alwaysTrue[T])
	return unwrap(opt, err, ErrEmptyStream)
}

// LastOr - like Last, but an empty stream yields dflt.
func LastOr[T any](it Uno[T], dflt T) (v T, _ error) {
	opt, err := scanLast(it, alwaysTrue[T])
	if err != nil {
		return v, err
	}
	return opt.UnwrapOr(dflt), nil
}

// FirstTrue - the first element satisfying pred. ErrNoMatch when nothing satisfies it.
// Stops scanning at the first match.
func FirstTrue[T any](it Uno[T], pred func(T) bool) (v T, _ error) {
	if pred == nil {
		return v, ErrNilFunc
	}
	opt, err := scanFirst(it, pred)
	return unwrap(opt, err, ErrNoMatch)
}

// FirstTrueOr - like FirstTrue, but no match yields dflt.
func FirstTrueOr[T any](it Uno[T], pred func(T) bool, dflt T) (v T, _ error) {
	if pred == nil {
		return v, ErrNilFunc
	}
	opt, err := scanFirst(it, pred)
	if err != nil {
		return v, err
	}
	return opt.UnwrapOr(dflt), nil
}

// FirstFalse - the first element NOT satisfying pred.
func FirstFalse[T any](it Uno[T], pred func(T) bool) (v T, _ error) {
	if pred == nil {
		return v, ErrNilFunc
	}
	return FirstTrue(it, not(pred))
}

// FirstFalseOr - like FirstFalse, but no match yields dflt.
func FirstFalseOr[T any](it Uno[T], pred func(T) bool, dflt T) (v T, _ error) {
	if pred == nil {
		return v, ErrNilFunc
	}
	return FirstTrueOr(it, not(pred), dflt)
}

// LastTrue - the final element satisfying pred. Consumes the whole stream (see scanLast).
func LastTrue[T any](it Uno[T], pred func(T) bool) (v T, _ error) {
	if pred == nil {
		return v, ErrNilFunc
	}
	opt, err := scanLast(it, pred)
	return unwrap(opt, err, ErrNoMatch)
}

// LastTrueOr - like LastTrue, but no match yields dflt.
func LastTrueOr[T any](it Uno[T], pred func(T) bool, dflt T) (v T, _ error) {
	if pred == nil {
		return v, ErrNilFunc
	}
	opt, err := scanLast(it, pred)
	if err != nil {
		return v, err
	}
	return opt.UnwrapOr(dflt), nil
}

// LastFalse - the final element NOT satisfying pred.
func LastFalse[T any](it Uno[T], pred func(T) bool) (v T, _ error) {
	if pred == nil {
		return v, ErrNilFunc
	}
	return LastTrue(it, not(pred))
}

// LastFalseOr - like LastFalse, but no match yields dflt.
func LastFalseOr[T any](it Uno[T], pred func(T) bool, dflt T) (v T, _ error) {
	if pred == nil {
		return v, ErrNilFunc
	}
	return LastTrueOr(it, not(pred), dflt)
}

func nth[T any](it Uno[T], n int) (g.Option[T], error) {
	if n < 0 {
		return g.None[T](), ErrNegativeCount
	}
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			return g.None[T](), err
		}
		if n == 0 {
			return g.Some(v), nil
		}
		n--
	}
	return g.None[T](), nil
}

// Nth - the element at offset n (0-based). ErrOutOfRange when the stream is shorter,
// ErrNegativeCount for n < 0.
func Nth[T any](it Uno[T], n int) (T, error) {
	opt, err := nth(it, n)
	return unwrap(opt, err, ErrOutOfRange)
}

// NthOr - like Nth, but a too-short stream yields dflt.
func NthOr[T any](it Uno[T], n int, dflt T) (v T, _ error) {
	opt, err := nth(it, n)
	if err != nil {
		return v, err
	}
	return opt.UnwrapOr(dflt), nil
}
