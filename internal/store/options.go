package store

import "sort"

// ApplyOptions sorts and truncates docs in place according to opts,
// returning the resulting slice. Both backends evaluate queries
// client-side and share this ordering logic so their results never
// diverge.
func ApplyOptions(docs []Document, opts FindOptions) []Document {
	if opts.Sort != nil {
		field := opts.Sort.Field
		desc := opts.Sort.Direction == Descending
		sort.SliceStable(docs, func(i, j int) bool {
			c := compareValues(docs[i][field], docs[j][field])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}
	if opts.Limit > 0 && len(docs) > opts.Limit {
		docs = docs[:opts.Limit]
	}
	return docs
}

// compareValues orders two document field values. Documents store
// numbers as float64 (the JSON number type) and everything else as
// strings or bools; missing fields sort first.
func compareValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case !av && bv:
				return -1
			case av && !bv:
				return 1
			}
			return 0
		}
	}
	return 0
}
