// Package jsonpath walks decoded JSON documents along a key descriptor.
//
// Registries disagree about response shape: some nest the release under
// objects, some under arrays of release candidates. The walk rule is
// explicit: whenever the current node is an array, descend into element 0
// before applying the next key. An empty array or an absent key fails the
// walk.
package jsonpath

import (
	"fmt"

	"github.com/TiceCosmos/theia-update-plugins/internal/core/domain"
)

// Resolve walks doc along the descriptor and returns the located value.
func Resolve(doc any, path domain.PathDescriptor) (any, error) {
	node := doc
	for i, key := range path {
		var err error
		if node, err = descend(node); err != nil {
			return nil, fmt.Errorf("at %q: %w", path[:i].String(), err)
		}
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("at %q: cannot apply key %q to %T", path[:i].String(), key, node)
		}
		node, ok = obj[key]
		if !ok {
			return nil, fmt.Errorf("key %q not present at %q", key, path[:i].String())
		}
	}
	return node, nil
}

// descend applies the implicit array rule: arrays resolve to their first
// element before a key lookup.
func descend(node any) (any, error) {
	arr, ok := node.([]any)
	if !ok {
		return node, nil
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("empty array")
	}
	return descend(arr[0])
}
