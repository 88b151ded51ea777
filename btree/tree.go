package btree

import (
	"cmp"

	"github.com/pingcap/errors"
)

var (
	// ErrInvalidDegree is the cause of the error returned when a tree is built with a
	// minimum degree below 2.
	ErrInvalidDegree = errors.New("minimum degree must be at least 2")
	// ErrNilCompare is the cause of the error returned when no compare func is given.
	ErrNilCompare = errors.New("compare func must not be nil")
)

/*
Tree only keeps a pointer to the root node and the minimum degree t.
Every node other than the root holds between t-1 and 2t-1 keys, and all leaves sit at
the same depth. Duplicate keys are stored as separate occurrences.

A Tree is not safe for concurrent use; callers that share one must guard mutations with
a lock of their own.
*/
type Tree[K any] struct {
	root    *Node[K]
	degree  int
	compare func(a, b K) int
	length  int
}

// New creates an empty tree for naturally ordered keys.
func New[K cmp.Ordered](degree int) (*Tree[K], error) {
	return NewWithCompare[K](degree, cmp.Compare[K])
}

// NewWithCompare creates an empty tree whose keys are ordered by compare, which must
// return a negative number, zero or a positive number when a < b, a == b or a > b.
func NewWithCompare[K any](degree int, compare func(a, b K) int) (*Tree[K], error) {
	if degree < 2 {
		return nil, errors.Annotatef(ErrInvalidDegree, "got degree %d", degree)
	}
	if compare == nil {
		return nil, errors.WithStack(ErrNilCompare)
	}
	return &Tree[K]{
		root:    newNode[K](degree, true),
		degree:  degree,
		compare: compare,
	}, nil
}

// Degree returns the minimum degree the tree was built with.
func (t *Tree[K]) Degree() int {
	return t.degree
}

// Len returns the number of stored keys, counting every duplicate.
func (t *Tree[K]) Len() int {
	return t.length
}

// Height returns the number of edges between the root and any leaf.
func (t *Tree[K]) Height() int {
	h := 0
	for n := t.root; !n.IsLeaf(); n = n.children[0] {
		h++
	}
	return h
}

func (t *Tree[K]) maxKeys() int {
	return 2*t.degree - 1
}

func (t *Tree[K]) minKeys() int {
	return t.degree - 1
}

// Search returns the node holding key and the key's index inside it.
// found is false, with a nil node and index -1, when the key is absent.
func (t *Tree[K]) Search(key K) (n *Node[K], index int, found bool) {
	for next := t.root; next != nil; {
		pos, ok := next.search(key, t.compare)
		if ok {
			return next, pos, true
		}
		if next.IsLeaf() {
			break
		}
		next = next.children[pos]
	}
	return nil, -1, false
}

// Contains reports whether at least one occurrence of key is stored.
func (t *Tree[K]) Contains(key K) bool {
	_, _, found := t.Search(key)
	return found
}

/*
splitRoot creates a new root node.
The existing root then becomes the new root's left child and the node created by
splitting it becomes the new root's right child. Height grows by one.
*/
func (t *Tree[K]) splitRoot() {
	newRoot := newNode[K](t.degree, false)
	midKey, sibling := t.root.split(t.degree)
	newRoot.insertKeyAt(0, midKey)
	newRoot.insertChildAt(0, t.root)
	newRoot.insertChildAt(1, sibling)
	t.root = newRoot
}

// splitChild splits the full child at pos and links the median and the new sibling
// into parent, which must not be full.
func (t *Tree[K]) splitChild(parent *Node[K], pos int) {
	midKey, sibling := parent.children[pos].split(t.degree)
	parent.insertKeyAt(pos, midKey)
	parent.insertChildAt(pos+1, sibling)
}

// Insert adds key to the tree. An existing equal key is not replaced; the tree then
// holds one more occurrence of it.
func (t *Tree[K]) Insert(key K) {
	// The root is full, so split it before descending.
	if len(t.root.keys) >= t.maxKeys() {
		t.splitRoot()
	}
	t.insert(t.root, key)
	t.length++
}

/*
insert walks down from n, which is known to have room for one more key, splitting every
full child before entering it. When a leaf is reached it is therefore guaranteed to have
a free slot and the key is placed at its sorted position.
*/
func (t *Tree[K]) insert(n *Node[K], key K) {
	pos, _ := n.search(key, t.compare)

	if n.IsLeaf() {
		n.insertKeyAt(pos, key)
		return
	}

	// If the next node on the traversal path is already full, split it
	if len(n.children[pos].keys) >= t.maxKeys() {
		t.splitChild(n, pos)
		// The promoted median now sits at pos. Keys greater than it belong to the
		// new right sibling.
		if t.compare(key, n.keys[pos]) > 0 {
			pos++
		}
	}
	t.insert(n.children[pos], key)
}
