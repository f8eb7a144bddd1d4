package services

// Ordered-list editing shared by the session-template and drill-assignment
// editors. Both keep a 1..N numbering; callers reassign the numbers from
// the returned slice positions.

func removeAt[T any](items []T, index int) []T {
	if index < 0 || index >= len(items) {
		return items
	}
	result := make([]T, 0, len(items)-1)
	result = append(result, items[:index]...)
	return append(result, items[index+1:]...)
}

// moveItem extracts the element at from and reinserts it at to, clamping to
// into range. The second return reports whether the slice changed.
func moveItem[T any](items []T, from, to int) ([]T, bool) {
	if from < 0 || from >= len(items) {
		return items, false
	}
	if to < 0 {
		to = 0
	}
	if to > len(items)-1 {
		to = len(items) - 1
	}
	if from == to {
		return items, false
	}

	moved := items[from]
	without := removeAt(items, from)
	result := make([]T, 0, len(items))
	result = append(result, without[:to]...)
	result = append(result, moved)
	return append(result, without[to:]...), true
}
