package btree

import (
	"fmt"
	"strings"

	"github.com/pingcap/errors"
)

// ErrCorrupted is the cause of every error returned by Verify.
var ErrCorrupted = errors.New("b-tree invariant violated")

// Verify walks the whole tree and checks the size, shape, balance and ordering
// invariants. It returns nil for a well formed tree.
func (t *Tree[K]) Verify() error {
	if t.root == nil {
		return errors.Annotate(ErrCorrupted, "missing root")
	}
	if !t.root.IsLeaf() && len(t.root.keys) == 0 {
		return errors.Annotate(ErrCorrupted, "internal root without keys")
	}
	leafDepth := -1
	if err := t.verifyNode(t.root, 0, &leafDepth); err != nil {
		return err
	}

	count := 0
	var prev K
	var err error
	t.ascend(func(key K) bool {
		if count > 0 && t.compare(prev, key) > 0 {
			err = errors.Annotatef(ErrCorrupted, "key %v follows %v in order", key, prev)
			return false
		}
		prev = key
		count++
		return true
	})
	if err != nil {
		return err
	}
	if count != t.length {
		return errors.Annotatef(ErrCorrupted, "tree holds %d keys, length says %d", count, t.length)
	}
	return nil
}

func (t *Tree[K]) verifyNode(n *Node[K], depth int, leafDepth *int) error {
	if n != t.root && (len(n.keys) < t.minKeys() || len(n.keys) > t.maxKeys()) {
		return errors.Annotatef(ErrCorrupted, "node %v at depth %d has %d keys, want [%d, %d]",
			n.keys, depth, len(n.keys), t.minKeys(), t.maxKeys())
	}
	if len(n.keys) > t.maxKeys() {
		return errors.Annotatef(ErrCorrupted, "root has %d keys, want at most %d", len(n.keys), t.maxKeys())
	}
	if n.IsLeaf() {
		if *leafDepth == -1 {
			*leafDepth = depth
		} else if *leafDepth != depth {
			return errors.Annotatef(ErrCorrupted, "leaf %v at depth %d, other leaves at %d", n.keys, depth, *leafDepth)
		}
		return nil
	}
	if len(n.children) != len(n.keys)+1 {
		return errors.Annotatef(ErrCorrupted, "node %v has %d children", n.keys, len(n.children))
	}
	for _, child := range n.children {
		if child == nil {
			return errors.Annotatef(ErrCorrupted, "node %v has a nil child", n.keys)
		}
		if err := t.verifyNode(child, depth+1, leafDepth); err != nil {
			return err
		}
	}
	return nil
}

// ascend calls fn for every key in order until fn returns false.
func (t *Tree[K]) ascend(fn func(K) bool) {
	t.root.ascend(fn)
}

func (n *Node[K]) ascend(fn func(K) bool) bool {
	for i, key := range n.keys {
		if !n.IsLeaf() && !n.children[i].ascend(fn) {
			return false
		}
		if !fn(key) {
			return false
		}
	}
	if !n.IsLeaf() {
		return n.children[len(n.children)-1].ascend(fn)
	}
	return true
}

// String renders the tree as nested brackets, e.g. [[5 6 7] 10 [12 17] 20 [30]].
func (t *Tree[K]) String() string {
	var sb strings.Builder
	t.root.format(&sb)
	return sb.String()
}

func (n *Node[K]) format(sb *strings.Builder) {
	sb.WriteByte('[')
	for i, key := range n.keys {
		if !n.IsLeaf() {
			n.children[i].format(sb)
			sb.WriteByte(' ')
		}
		if i > 0 && n.IsLeaf() {
			sb.WriteByte(' ')
		}
		fmt.Fprint(sb, key)
		if !n.IsLeaf() {
			sb.WriteByte(' ')
		}
	}
	if !n.IsLeaf() {
		n.children[len(n.children)-1].format(sb)
	}
	sb.WriteByte(']')
}
