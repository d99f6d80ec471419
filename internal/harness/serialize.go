package harness

import "github.com/leapstack-labs/pgparse/pkg/nodes"

// Serialize renders tree in the canonical node text format.
func Serialize(tree *nodes.List) (string, error) {
	out := nodes.NodeToString(tree)
	if out == "" {
		return "", ErrSerialization
	}
	return out, nil
}
