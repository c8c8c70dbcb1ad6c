package stream

// Collectors are terminal: they drain the stream they are given. On a source failure they
// return the elements gathered so far alongside the error.

func ToArray[T any](s Uno[T]) (res []T, err error) {
	for s.HasNext() {
		v, err := s.Next()
		if err != nil {
			return res, err
		}
		res = append(res, v)
	}
	return res, nil
}

func ToArrayDuo[K, V any](s Duo[K, V]) (keys []K, values []V, err error) {
	for s.HasNext() {
		k, v, err := s.Next()
		if err != nil {
			return keys, values, err
		}
		keys = append(keys, k)
		values = append(values, v)
	}
	return keys, values, nil
}

// Count - number of elements remaining in the stream. Consumes it.
func Count[T any](s Uno[T]) (cnt int, err error) {
	for s.HasNext() {
		if _, err := s.Next(); err != nil {
			return cnt, err
		}
		cnt++
	}
	return cnt, nil
}

func CountDuo[K, V any](s Duo[K, V]) (cnt int, err error) {
	for s.HasNext() {
		if _, _, err := s.Next(); err != nil {
			return cnt, err
		}
		cnt++
	}
	return cnt, nil
}

// Quantify - number of elements satisfying pred. Consumes the stream: O(n) time, O(1) extra
// space. pred is required - use Count for plain cardinality.
func Quantify[T any](s Uno[T], pred func(T) bool) (cnt int, err error) {
	if pred == nil {
		return 0, ErrNilFunc
	}
	for s.HasNext() {
		v, err := s.Next()
		if err != nil {
			return cnt, err
		}
		if pred(v) {
			cnt++
		}
	}
	return cnt, nil
}
