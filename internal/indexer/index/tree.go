// Package index implements the term dictionary as a 2-3 tree mapping each
// term to its posting set. Every node holds one or two sorted keys and
// either no children (leaf) or one more child than keys; all leaves sit at
// the same depth. Insertion splits full nodes bottom-up, growing the tree
// at the root only.
//
// A key promoted during a split carries its posting set with it, so every
// key in the tree, internal or leaf, resolves to the documents recorded
// for it and each term appears exactly once.
package index

import "strings"

const (
	maxKeys     = 2
	maxChildren = maxKeys + 1
)

// node is a 2-node (one key) or 3-node (two keys). Fixed-capacity arrays
// plus an explicit key count keep the size invariant structural: numKeys is
// 1 or 2 after every completed operation, and numChildren is 0 or numKeys+1.
type node struct {
	keys        [maxKeys]string
	postings    [maxKeys]PostingSet
	children    [maxChildren]*node
	numKeys     int
	numChildren int
}

func (n *node) isLeaf() bool { return n.numChildren == 0 }
func (n *node) isFull() bool { return n.numKeys == maxKeys }

// childIndex selects the subtree bounding term: child 0 below the first
// key, child 2 above the second, child 1 between.
func (n *node) childIndex(term string) int {
	if term < n.keys[0] {
		return 0
	}
	if n.numKeys == 1 || term < n.keys[1] {
		return 1
	}
	return 2
}

// insertKey places a key and its posting set in sorted position. The node
// must not be full.
func (n *node) insertKey(term string, set PostingSet) {
	i := n.numKeys
	for i > 0 && term < n.keys[i-1] {
		n.keys[i], n.postings[i] = n.keys[i-1], n.postings[i-1]
		i--
	}
	n.keys[i], n.postings[i] = term, set
	n.numKeys++
}

// splitResult carries a completed split up to the parent frame: the two
// replacement nodes and the promoted middle key with its posting set.
type splitResult struct {
	left  *node
	key   string
	set   PostingSet
	right *node
}

// Tree is the 2-3 tree term index. It is built by a single writer and then
// read-only; concurrent reads are safe once no more inserts occur.
type Tree struct {
	root *node
	size int
}

// NewTree creates an empty tree consisting of a single empty leaf.
func NewTree() *Tree {
	return &Tree{root: &node{}}
}

// Len returns the number of distinct terms structurally inserted.
func (t *Tree) Len() int { return t.size }

// Search returns the posting set stored for an exact term, or an empty set
// if the term is absent. It never mutates the tree.
func (t *Tree) Search(term string) PostingSet {
	n := t.root
	for n != nil {
		for i := 0; i < n.numKeys; i++ {
			if term == n.keys[i] {
				return n.postings[i]
			}
		}
		if n.isLeaf() {
			return nil
		}
		n = n.children[n.childIndex(term)]
	}
	return nil
}

// Insert records that docID contains term. An existing term degenerates to
// an in-place posting-set update; a new term is placed in a leaf, splitting
// full nodes on the way back up. Inserting the same (term, docID) pair
// twice is idempotent.
func (t *Tree) Insert(term, docID string) {
	if set := t.Search(term); set != nil {
		set.Add(docID)
		return
	}
	res, split := t.insert(t.root, term, NewPostingSet(docID))
	if split {
		root := &node{}
		root.keys[0] = res.key
		root.postings[0] = res.set
		root.children[0] = res.left
		root.children[1] = res.right
		root.numKeys = 1
		root.numChildren = 2
		t.root = root
	}
	t.size++
}

// insert descends to a leaf and reports a split to the caller when one
// occurred at its level.
func (t *Tree) insert(n *node, term string, set PostingSet) (splitResult, bool) {
	if n.isLeaf() {
		if !n.isFull() {
			n.insertKey(term, set)
			return splitResult{}, false
		}
		return splitLeaf(n, term, set), true
	}

	idx := n.childIndex(term)
	res, split := t.insert(n.children[idx], term, set)
	if !split {
		return splitResult{}, false
	}

	// Absorb the promoted key together with its postings.
	if !n.isFull() {
		n.insertKey(res.key, res.set)
		if idx == 0 {
			n.children[2] = n.children[1]
		}
		n.children[idx] = res.left
		n.children[idx+1] = res.right
		n.numChildren++
		return splitResult{}, false
	}
	return splitInternal(n, idx, res), true
}

// splitLeaf forms the sorted triple of the leaf's two keys plus the new one,
// promotes the middle key with its posting set, and returns two fresh
// single-key leaves. The old node is discarded.
func splitLeaf(n *node, term string, set PostingSet) splitResult {
	keys := [3]string{n.keys[0], n.keys[1], term}
	sets := [3]PostingSet{n.postings[0], n.postings[1], set}
	if keys[2] < keys[1] {
		keys[1], keys[2] = keys[2], keys[1]
		sets[1], sets[2] = sets[2], sets[1]
	}
	if keys[1] < keys[0] {
		keys[0], keys[1] = keys[1], keys[0]
		sets[0], sets[1] = sets[1], sets[0]
	}

	left := &node{numKeys: 1}
	left.keys[0], left.postings[0] = keys[0], sets[0]
	right := &node{numKeys: 1}
	right.keys[0], right.postings[0] = keys[2], sets[2]
	return splitResult{left: left, key: keys[1], set: sets[1], right: right}
}

// splitInternal splits a full internal node absorbing a child split at
// position idx. The three keys and four children partition into two
// single-key internal nodes around the new middle key.
func splitInternal(n *node, idx int, child splitResult) splitResult {
	var keys [3]string
	var sets [3]PostingSet
	var kids [4]*node

	switch idx {
	case 0:
		keys = [3]string{child.key, n.keys[0], n.keys[1]}
		sets = [3]PostingSet{child.set, n.postings[0], n.postings[1]}
		kids = [4]*node{child.left, child.right, n.children[1], n.children[2]}
	case 1:
		keys = [3]string{n.keys[0], child.key, n.keys[1]}
		sets = [3]PostingSet{n.postings[0], child.set, n.postings[1]}
		kids = [4]*node{n.children[0], child.left, child.right, n.children[2]}
	default:
		keys = [3]string{n.keys[0], n.keys[1], child.key}
		sets = [3]PostingSet{n.postings[0], n.postings[1], child.set}
		kids = [4]*node{n.children[0], n.children[1], child.left, child.right}
	}

	left := &node{numKeys: 1, numChildren: 2}
	left.keys[0], left.postings[0] = keys[0], sets[0]
	left.children[0], left.children[1] = kids[0], kids[1]
	right := &node{numKeys: 1, numChildren: 2}
	right.keys[0], right.postings[0] = keys[2], sets[2]
	right.children[0], right.children[1] = kids[2], kids[3]
	return splitResult{left: left, key: keys[1], set: sets[1], right: right}
}

// PrefixCollect returns every (term, postings) pair whose term starts with
// prefix. The traversal is pre-order over the whole tree and the output
// order is unspecified; callers sort as needed.
func (t *Tree) PrefixCollect(prefix string) []TermPostings {
	var out []TermPostings
	t.walk(t.root, func(term string, set PostingSet) {
		if strings.HasPrefix(term, prefix) {
			out = append(out, TermPostings{Term: term, Postings: set})
		}
	})
	return out
}

// Traverse returns every (term, postings) pair in the tree in pre-order.
func (t *Tree) Traverse() []TermPostings {
	out := make([]TermPostings, 0, t.size)
	t.walk(t.root, func(term string, set PostingSet) {
		out = append(out, TermPostings{Term: term, Postings: set})
	})
	return out
}

func (t *Tree) walk(n *node, visit func(term string, set PostingSet)) {
	if n == nil {
		return
	}
	for i := 0; i < n.numKeys; i++ {
		visit(n.keys[i], n.postings[i])
	}
	for i := 0; i < n.numChildren; i++ {
		t.walk(n.children[i], visit)
	}
}
