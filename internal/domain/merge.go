package domain

// Keyed is a record with a stable numeric identifier.
type Keyed interface {
	Key() int64
}

// Merge returns remote records in remote order followed by local records
// whose identifier the remote set does not contain. Each identifier
// appears at most once, the first occurrence wins. Merge(Merge(r, l), l)
// equals Merge(r, l).
func Merge[T Keyed](remote, local []T) []T {
	merged := make([]T, 0, len(remote)+len(local))
	seen := make(map[int64]struct{}, len(remote)+len(local))

	for _, batch := range [][]T{remote, local} {
		for _, rec := range batch {
			if _, dup := seen[rec.Key()]; dup {
				continue
			}
			seen[rec.Key()] = struct{}{}
			merged = append(merged, rec)
		}
	}
	return merged
}
