package tree

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/benz9527/ostree/lib/infra"
)

// References:
// https://en.wikipedia.org/wiki/Order_statistic_tree
// CLRS 14.1 Dynamic order statistics.
//
// Each node counts the keys of its own subtree, so the rank of a node
// inside its subtree is left.size + 1. SELECT and RANK walk a single
// root-to-leaf path and run in O(log n).
//
// A per-tree sentinel stands for every absent child and for the parent
// of the root. It is black, its size is always 0 and the root hangs on
// its left link.
type osTree[K infra.OrderedKey] struct {
	sentinel *osNode[K]
	cmp      infra.OrderedKeyComparator[K]
	count    int64
	isDesc   bool
}

func (tree *osTree[K]) init() {
	sentinel := &osNode[K]{color: Black}
	sentinel.parent, sentinel.left, sentinel.right = sentinel, sentinel, sentinel
	tree.sentinel = sentinel
}

func (tree *osTree[K]) root() *osNode[K] {
	return tree.sentinel.left
}

func (tree *osTree[K]) newNode(key K, color RBColor) *osNode[K] {
	return &osNode[K]{
		parent: tree.sentinel,
		left:   tree.sentinel,
		right:  tree.sentinel,
		key:    key,
		size:   1,
		color:  color,
		hasKey: true,
	}
}

func (tree *osTree[K]) keyCompare(k1, k2 K) int64 {
	return tree.cmp(k1, k2)
}

func (tree *osTree[K]) Len() int64 {
	return tree.count
}

func (tree *osTree[K]) Root() OSNode[K] {
	if root := tree.root(); root != tree.sentinel {
		return root
	}
	return nil
}

func (tree *osTree[K]) search(key K) *osNode[K] {
	for aux := tree.root(); aux != tree.sentinel; {
		res := tree.keyCompare(key, aux.key)
		if /* equal */ res == 0 {
			return aux
		} else /* less */ if res < 0 {
			aux = aux.left
		} else /* greater */ {
			aux = aux.right
		}
	}
	return tree.sentinel
}

// i1: Empty tree, the new node becomes the black root.
//
// i2: Otherwise the new red node is spliced under the last visited node,
// every ancestor counts one more key and a red parent means the
// double-red has to be fixed.
func (tree *osTree[K]) Insert(key K) (K, bool) {
	if /* i1 */ tree.root() == tree.sentinel {
		tree.sentinel.setChild(tree.newNode(key, Black), Left)
		tree.count++
		return key, true
	}

	var (
		x   = tree.root()
		y   *osNode[K]
		dir RBDirection
	)
	for x != tree.sentinel {
		y = x
		res := tree.keyCompare(key, x.key)
		if /* equal */ res == 0 {
			var zero K
			return zero, false
		} else /* less */ if res < 0 {
			dir = Left
		} else /* greater */ {
			dir = Right
		}
		x = x.child(dir)
	}

	/* i2 */
	z := tree.newNode(key, Red)
	y.setChild(z, dir)
	for aux := y; aux != tree.sentinel; aux = aux.parent {
		aux.incSize()
	}
	if y.isRed() {
		tree.insertRebalance(z)
	}
	tree.count++
	return key, true
}

/*
r1: Only a root node, release the tree.

r2: Current node Z has left and right node.
Copy the key of Z's succ (the minimum of the right subtree) into Z,
then the succ node Y is the one to be unlinked. Y has no left child.

	  |                    |
	  Z                    S
	 / \                  / \
	L  ..   copy(S, Z)   L  ..
	    |   =========>       |
	    P                    P
	   / \                  / \
	  S  ..               [Y] ..

r3: Y has at most one not nil child X (X may be the sentinel).
X takes Y's place and every ancestor counts one key less.
(1) Y is red, nothing else to do.
(2) Y is black and X is red, repaint X into black.
(3) Both are black, X's side is short of one black node.
*/
func (tree *osTree[K]) Remove(key K) (K, bool) {
	var zero K
	z := tree.search(key)
	if z == tree.sentinel {
		return zero, false
	}
	res := z.key

	if /* r1 */ tree.count == 1 {
		tree.Release()
		return res, true
	}

	y := z
	if /* r2 */ z.left != tree.sentinel && z.right != tree.sentinel {
		y = z.right.minimum()
		z.key = y.key
	}

	/* r3 */
	x := y.right
	if y.left != tree.sentinel {
		x = y.left
	}
	p, dir := y.parent, y.side()
	p.setChild(x, dir)
	for aux := p; aux != tree.sentinel; aux = aux.parent {
		aux.decSize()
	}
	tree.count--

	if y.isBlack() {
		if /* r3 (2) */ x.isRed() {
			x.color = Black
		} else /* r3 (3) */ {
			tree.removeRebalance(x, dir)
		}
	}

	// Unlink node
	y.parent, y.left, y.right = nil, nil, nil
	y.hasKey = false
	return res, true
}

func (tree *osTree[K]) Select(i int64) (K, bool) {
	var zero K
	if i < 1 || i > tree.count {
		return zero, false
	}

	for aux := tree.root(); aux != tree.sentinel; {
		r := aux.left.size + 1
		if i == r {
			return aux.key, true
		} else if i < r {
			aux = aux.left
		} else {
			i -= r
			aux = aux.right
		}
	}
	// impossible run to here
	panic( /* debug assertion */ "[ostree] select index exceeds the subtree size")
}

func (tree *osTree[K]) Rank(key K) int64 {
	r := int64(0)
	for aux := tree.root(); aux != tree.sentinel; {
		res := tree.keyCompare(key, aux.key)
		if /* equal */ res == 0 {
			return r + aux.left.size + 1
		} else /* less */ if res < 0 {
			aux = aux.left
		} else /* greater */ {
			r += aux.left.size + 1
			aux = aux.right
		}
	}
	return 0
}

func (tree *osTree[K]) IsValid() bool {
	return Validate[K](tree) == nil
}

// Release unlinks every node, so the nodes held by callers report no key.
func (tree *osTree[K]) Release() {
	aux := tree.root()
	tree.sentinel.left = tree.sentinel
	tree.count = 0
	if aux == tree.sentinel {
		return
	}

	stack := make([]*osNode[K], 0, 64)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if aux.left != tree.sentinel {
			stack = append(stack, aux.left)
		}
		if aux.right != tree.sentinel {
			stack = append(stack, aux.right)
		}
		aux.parent, aux.left, aux.right = nil, nil, nil
		aux.hasKey = false
	}
}

// String prints a not nil node as ([R or B] key,(left node),(right node)).
func (tree *osTree[K]) String() string {
	if tree.root() == tree.sentinel {
		return "empty"
	}
	builder := &strings.Builder{}
	tree.printNode(builder, tree.root())
	return builder.String()
}

func (tree *osTree[K]) printNode(builder *strings.Builder, node *osNode[K]) {
	if node == tree.sentinel {
		builder.WriteString("NIL")
		return
	}
	builder.WriteString("(")
	builder.WriteString(lo.Ternary(node.color == Red, "R", "B"))
	builder.WriteString(" ")
	builder.WriteString(fmt.Sprint(node.key))
	builder.WriteString(",")
	tree.printNode(builder, node.left)
	builder.WriteString(",")
	tree.printNode(builder, node.right)
	builder.WriteString(")")
}

type OSTreeOpt[K infra.OrderedKey] func(*osTree[K])

func WithOSTreeDesc[K infra.OrderedKey]() OSTreeOpt[K] {
	return func(tree *osTree[K]) {
		tree.isDesc = true
	}
}

func WithOSTreeComparator[K infra.OrderedKey](cmp infra.OrderedKeyComparator[K]) OSTreeOpt[K] {
	return func(tree *osTree[K]) {
		tree.cmp = cmp
	}
}

func NewOSTree[K infra.OrderedKey](opts ...OSTreeOpt[K]) OSTree[K] {
	tree := &osTree[K]{
		count:  0,
		isDesc: false,
	}
	for _, o := range opts {
		o(tree)
	}

	if tree.cmp == nil {
		tree.cmp = infra.AscComparator[K]()
	}
	if tree.isDesc {
		tree.cmp = tree.cmp.Reverse()
	}
	tree.init()
	return tree
}
