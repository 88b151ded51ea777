package btree

/*
Delete removes one occurrence of key and reports whether it did.
An absent key is a no-op: the tree is left exactly as it was, without any of the
rebalancing a descent would otherwise perform.
*/
func (t *Tree[K]) Delete(key K) bool {
	if !t.Contains(key) {
		return false
	}
	t.delete(t.root, key)
	t.length--
	return true
}

/*
delete removes key from the subtree rooted at n.
Before stepping into a child that holds only t-1 keys, the child is topped up by a
borrow or a merge, so whichever node ends up losing a key can afford it.
*/
func (t *Tree[K]) delete(n *Node[K], key K) {
	pos, found := n.search(key, t.compare)
	switch {
	case found && n.IsLeaf():
		n.removeKeyAt(pos)
	case found:
		t.deleteInternal(n, pos)
	case n.IsLeaf():
		// Not in the tree.
	default:
		t.delete(t.fillChild(n, pos), key)
	}
}

// deleteInternal removes keys[pos] from the internal node n.
func (t *Tree[K]) deleteInternal(n *Node[K], pos int) {
	key := n.keys[pos]
	left, right := n.children[pos], n.children[pos+1]
	switch {
	case len(left.keys) > t.minKeys():
		pred := left.max()
		n.keys[pos] = pred
		t.delete(left, pred)
	case len(right.keys) > t.minKeys():
		succ := right.min()
		n.keys[pos] = succ
		t.delete(right, succ)
	default:
		// Both neighbours are minimal: fold them and the key into one node of
		// 2t-1 keys and remove the key from there.
		t.delete(t.merge(n, pos), key)
	}
}

/*
fillChild makes sure children[pos] of n has at least t keys and returns the child the
descent must continue into. A merge with the left sibling moves the child's content into
that sibling, so the returned node is not always children[pos].
*/
func (t *Tree[K]) fillChild(n *Node[K], pos int) *Node[K] {
	child := n.children[pos]
	if len(child.keys) > t.minKeys() {
		return child
	}
	switch {
	case pos > 0 && len(n.children[pos-1].keys) > t.minKeys():
		t.borrowFromLeft(n, pos)
		return child
	case pos < len(n.keys) && len(n.children[pos+1].keys) > t.minKeys():
		t.borrowFromRight(n, pos)
		return child
	case pos < len(n.keys):
		return t.merge(n, pos)
	default:
		return t.merge(n, pos-1)
	}
}

/*
borrowFromLeft rotates one key through the parent: the separator moves down to the
front of the child and the left sibling's last key replaces it. For internal nodes the
sibling's last child follows its key.
*/
func (t *Tree[K]) borrowFromLeft(parent *Node[K], pos int) {
	child, sibling := parent.children[pos], parent.children[pos-1]
	child.insertKeyAt(0, parent.keys[pos-1])
	parent.keys[pos-1] = sibling.removeKeyAt(len(sibling.keys) - 1)
	if !sibling.IsLeaf() {
		child.insertChildAt(0, sibling.removeChildAt(len(sibling.children)-1))
	}
}

// borrowFromRight is the mirror image of borrowFromLeft.
func (t *Tree[K]) borrowFromRight(parent *Node[K], pos int) {
	child, sibling := parent.children[pos], parent.children[pos+1]
	child.keys = append(child.keys, parent.keys[pos])
	parent.keys[pos] = sibling.removeKeyAt(0)
	if !sibling.IsLeaf() {
		child.children = append(child.children, sibling.removeChildAt(0))
	}
}

/*
merge pulls parent.keys[pos] and everything in children[pos+1] into children[pos] and
drops the right sibling. When this empties the root, the merged node becomes the new
root and the height shrinks by one.
*/
func (t *Tree[K]) merge(parent *Node[K], pos int) *Node[K] {
	left, right := parent.children[pos], parent.children[pos+1]
	left.keys = append(left.keys, parent.removeKeyAt(pos))
	left.keys = append(left.keys, right.keys...)
	left.children = append(left.children, right.children...)
	parent.removeChildAt(pos + 1)

	if parent == t.root && len(parent.keys) == 0 {
		t.root = left
	}
	return left
}
