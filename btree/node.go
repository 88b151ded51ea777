package btree

import "slices"

/*
Node is a single B-tree node.
keys are kept in non-decreasing order. An internal node always has exactly one more
child than it has keys; a leaf has no children at all.
Nodes are owned by exactly one parent (or by the Tree, for the root) and are only
created by splits and only discarded by merges.
*/
type Node[K any] struct {
	keys     []K
	children []*Node[K]
}

// newNode allocates a node with room for a full set of keys so that inserts and
// merges never grow the backing arrays.
func newNode[K any](degree int, leaf bool) *Node[K] {
	n := &Node[K]{keys: make([]K, 0, 2*degree-1)}
	if !leaf {
		n.children = make([]*Node[K], 0, 2*degree)
	}
	return n
}

// IsLeaf reports whether the node has no children.
func (n *Node[K]) IsLeaf() bool {
	return len(n.children) == 0
}

// NumKeys returns the number of keys stored in the node.
func (n *Node[K]) NumKeys() int {
	return len(n.keys)
}

// NumChildren returns 0 for a leaf and NumKeys()+1 otherwise.
func (n *Node[K]) NumChildren() int {
	return len(n.children)
}

// Key returns the i-th key of the node. It panics if i is out of range.
func (n *Node[K]) Key(i int) K {
	return n.keys[i]
}

/*
search returns the smallest index i with key <= keys[i], and whether keys[i] == key.
When the key is not in the node, i is also the position of the child pointer to
follow, so the traversal can continue down the tree.
*/
func (n *Node[K]) search(key K, compare func(a, b K) int) (int, bool) {
	low, high := 0, len(n.keys)
	var mid int
	for low < high {
		mid = (low + high) / 2
		if compare(key, n.keys[mid]) > 0 {
			low = mid + 1
		} else {
			high = mid
		}
	}
	return low, low < len(n.keys) && compare(key, n.keys[low]) == 0
}

func (n *Node[K]) insertKeyAt(pos int, key K) {
	n.keys = slices.Insert(n.keys, pos, key)
}

func (n *Node[K]) insertChildAt(pos int, child *Node[K]) {
	n.children = slices.Insert(n.children, pos, child)
}

// removeKeyAt deletes and returns the key at pos. The vacated tail slot is zeroed.
func (n *Node[K]) removeKeyAt(pos int) K {
	key := n.keys[pos]
	n.keys = slices.Delete(n.keys, pos, pos+1)
	return key
}

func (n *Node[K]) removeChildAt(pos int) *Node[K] {
	child := n.children[pos]
	n.children = slices.Delete(n.children, pos, pos+1)
	return child
}

/*
split divides a full node (2*degree-1 keys) around its median.
The node keeps the lower degree-1 keys and, if internal, the first degree children.
The returned sibling takes the upper degree-1 keys and the remaining children.
The median is returned so the caller can promote it into the parent.
Moved slots are cleared so the two nodes never share a child.
*/
func (n *Node[K]) split(degree int) (K, *Node[K]) {
	mid := degree - 1
	midKey := n.keys[mid]

	sibling := newNode[K](degree, n.IsLeaf())
	sibling.keys = append(sibling.keys, n.keys[mid+1:]...)
	clear(n.keys[mid:])
	n.keys = n.keys[:mid]

	if len(n.children) > 0 {
		sibling.children = append(sibling.children, n.children[mid+1:]...)
		clear(n.children[mid+1:])
		n.children = n.children[:mid+1]
	}
	return midKey, sibling
}

// max returns the rightmost key of the rightmost leaf under n.
func (n *Node[K]) max() K {
	for !n.IsLeaf() {
		n = n.children[len(n.children)-1]
	}
	return n.keys[len(n.keys)-1]
}

// min returns the leftmost key of the leftmost leaf under n.
func (n *Node[K]) min() K {
	for !n.IsLeaf() {
		n = n.children[0]
	}
	return n.keys[0]
}
