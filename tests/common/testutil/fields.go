//go:build unit || e2e

package testutil

import (
	"strconv"
	"strings"
)

// Field sets the value at a dotted path such as "items.0.quantity"; a nil
// value deletes it. Missing objects along the path are created, and paths
// through absent list elements are ignored.
func Field(path string, value any) func(m map[string]any) {
	keys := strings.Split(path, ".")
	return func(m map[string]any) {
		var cur any = m
		for i, key := range keys {
			last := i == len(keys)-1
			switch node := cur.(type) {
			case map[string]any:
				if last {
					if value == nil {
						delete(node, key)
					} else {
						node[key] = value
					}
					return
				}
				next, ok := node[key]
				if !ok {
					next = map[string]any{}
					node[key] = next
				}
				cur = next
			case []any:
				idx, err := strconv.Atoi(key)
				if err != nil || idx < 0 || idx >= len(node) {
					return
				}
				if last {
					node[idx] = value
					return
				}
				cur = node[idx]
			default:
				return
			}
		}
	}
}
