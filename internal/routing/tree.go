// Package routing resolves request paths against the static endpoint table.
package routing

import (
	"fmt"
	"strings"

	"github.com/kyleking/supplier-api/internal/query"
)

// Wildcard is the pattern segment that captures any single path segment
const Wildcard = "{}"

// Namespace is the first segment of every API path
const Namespace = "api"

const root = 0

type node struct {
	segment  string
	children []int
	kind     query.Kind
	bound    bool
}

// Tree is a prefix tree over path segments. Nodes live in one slice and refer
// to each other by index. A Tree is not modified after Build returns and is
// safe for concurrent use.
type Tree struct {
	nodes []node
}

// Build constructs a tree from endpoints
func Build(endpoints []Endpoint) (*Tree, error) {
	t := &Tree{nodes: []node{{segment: Namespace}}}

	for _, ep := range endpoints {
		if err := t.insert(ep.Pattern, ep.Kind); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Default builds the tree for the package route table
func Default() *Tree {
	t, err := Build(endpoints)
	if err != nil {
		panic(fmt.Sprintf("invalid route table: %v", err))
	}

	return t
}

func (t *Tree) insert(pattern string, kind query.Kind) error {
	segments, ok := splitPath(pattern)
	if !ok || len(segments) == 0 || segments[0] != Namespace {
		return fmt.Errorf("pattern %q must start with /%s", pattern, Namespace)
	}

	cur := root
	for _, seg := range segments[1:] {
		if seg == "" {
			return fmt.Errorf("pattern %q has an empty segment", pattern)
		}

		next, found := t.child(cur, seg)
		if !found {
			t.nodes = append(t.nodes, node{segment: seg})
			next = len(t.nodes) - 1
			t.nodes[cur].children = append(t.nodes[cur].children, next)
		}

		cur = next
	}

	if t.nodes[cur].bound {
		return fmt.Errorf("pattern %q is registered twice", pattern)
	}

	t.nodes[cur].kind = kind
	t.nodes[cur].bound = true

	return nil
}

// child returns the child of n whose segment equals seg exactly
func (t *Tree) child(n int, seg string) (int, bool) {
	for _, c := range t.nodes[n].children {
		if t.nodes[c].segment == seg {
			return c, true
		}
	}

	return 0, false
}

// Resolve matches path against the tree. path is the escaped request path;
// captured values are returned still escaped.
func (t *Tree) Resolve(path string) Outcome {
	segments, ok := splitPath(path)
	if !ok || len(segments) == 0 {
		return Outcome{Status: Malformed}
	}

	if segments[0] != Namespace {
		return Outcome{Status: NotAPI}
	}

	rest := segments[1:]
	if len(rest) == 0 {
		return Outcome{Status: APIRoot}
	}

	cur := root

	var captured []string

	for i, seg := range rest {
		if next, found := t.child(cur, seg); found && seg != Wildcard {
			cur = next
			continue
		}

		if next, found := t.child(cur, Wildcard); found {
			captured = append(captured, seg)
			cur = next

			continue
		}

		// A trailing segment with no matching child still resolves to the
		// current node when it is bound.
		if i == len(rest)-1 && t.nodes[cur].bound {
			return Outcome{Status: Matched, Kind: t.nodes[cur].kind, Captured: captured}
		}

		return Outcome{Status: InvalidURI}
	}

	if !t.nodes[cur].bound {
		return Outcome{Status: InvalidURI}
	}

	return Outcome{Status: Matched, Kind: t.nodes[cur].kind, Captured: captured}
}

// Size returns the number of nodes, including the namespace root
func (t *Tree) Size() int {
	return len(t.nodes)
}

// splitPath drops the leading empty segment and at most one trailing empty
// segment. It fails when path is not absolute.
func splitPath(path string) ([]string, bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}

	segments := strings.Split(path[1:], "/")
	if len(segments) > 1 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}

	return segments, true
}
