package tree

import (
	"github.com/benz9527/ostree/lib/infra"
)

type osNode[K infra.OrderedKey] struct {
	parent *osNode[K]
	left   *osNode[K]
	right  *osNode[K]
	key    K
	size   int64
	color  RBColor
	hasKey bool
}

func (node *osNode[K]) Key() K {
	return node.key
}

func (node *osNode[K]) HasKey() bool {
	if node == nil {
		return false
	}
	return node.hasKey
}

func (node *osNode[K]) Color() RBColor {
	return node.color
}

func (node *osNode[K]) Size() int64 {
	if node == nil {
		return 0
	}
	return node.size
}

func (node *osNode[K]) Left() OSNode[K] {
	if node == nil || node.left.isNilLeaf() {
		return nil
	}
	return node.left
}

func (node *osNode[K]) Right() OSNode[K] {
	if node == nil || node.right.isNilLeaf() {
		return nil
	}
	return node.right
}

func (node *osNode[K]) Parent() OSNode[K] {
	if node == nil || node.parent.isNilLeaf() {
		return nil
	}
	return node.parent
}

// The sentinel and unlinked nodes carry no key.
func (node *osNode[K]) isNilLeaf() bool {
	return node == nil || !node.hasKey
}

func (node *osNode[K]) isRed() bool {
	return !node.isNilLeaf() && node.color == Red
}

func (node *osNode[K]) isBlack() bool {
	return node.isNilLeaf() || node.color == Black
}

func (node *osNode[K]) isRoot() bool {
	return !node.isNilLeaf() && node.parent.isNilLeaf()
}

func (node *osNode[K]) Direction() RBDirection {
	if node.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[ostree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	return node.side()
}

// side reports which link of the parent holds the node.
// The root hangs on the sentinel's left link.
func (node *osNode[K]) side() RBDirection {
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *osNode[K]) child(dir RBDirection) *osNode[K] {
	if dir == Left {
		return node.left
	}
	return node.right
}

func (node *osNode[K]) setChild(x *osNode[K], dir RBDirection) {
	if dir == Left {
		node.left = x
	} else {
		node.right = x
	}
	x.parent = node
}

func (node *osNode[K]) incSize() {
	node.size++
}

func (node *osNode[K]) decSize() {
	node.size--
}

func (node *osNode[K]) updateSize() {
	node.size = node.left.size + node.right.size + 1
}

// minimum stops at the last node with a key.
func (node *osNode[K]) minimum() *osNode[K] {
	aux := node
	for ; !aux.left.isNilLeaf(); aux = aux.left {
	}
	return aux
}
