package tree

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/ostree/lib/infra"
)

var (
	ErrRootViolation  = errors.New("[ostree] root violation")
	ErrRedViolation   = errors.New("[ostree] red violation")
	ErrBlackViolation = errors.New("[ostree] black violation")
	ErrSizeViolation  = errors.New("[ostree] size violation")
	ErrOrderViolation = errors.New("[ostree] order violation")
)

func isBlack[K infra.OrderedKey](node OSNode[K]) bool {
	return node == nil || node.Color() == Black
}

func isRed[K infra.OrderedKey](node OSNode[K]) bool {
	return node != nil && node.Color() == Red
}

func sizeOf[K infra.OrderedKey](node OSNode[K]) int64 {
	if node == nil {
		return 0
	}
	return node.Size()
}

func blackDepthTo[K infra.OrderedKey](target, to OSNode[K]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.Parent() {
		if isBlack[K](aux) {
			depth++
		}
	}
	return depth
}

// Inorder traversal, idx starts from 1.
func inorder[K infra.OrderedKey](tree OSTree[K], action func(idx int64, node OSNode[K]) bool) {
	aux := tree.Root()
	if aux == nil {
		return
	}

	stack := make([]OSNode[K], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	idx := int64(1)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
}

// ostree rule validation utilities.

func RootViolationValidate[K infra.OrderedKey](tree OSTree[K]) error {
	root := tree.Root()
	if root == nil {
		if tree.Len() != 0 {
			return fmt.Errorf("%w: empty tree with len %d", ErrRootViolation, tree.Len())
		}
		return nil
	}
	if root.Parent() != nil {
		return fmt.Errorf("%w: root %v has a parent", ErrRootViolation, root.Key())
	}
	if isRed[K](root) {
		return fmt.Errorf("%w: root %v is red", ErrRootViolation, root.Key())
	}
	return nil
}

func RedViolationValidate[K infra.OrderedKey](tree OSTree[K]) (err error) {
	inorder[K](tree, func(idx int64, node OSNode[K]) bool {
		if isRed[K](node) && (isRed[K](node.Left()) || isRed[K](node.Right())) {
			err = fmt.Errorf("%w: red node %v has a red child", ErrRedViolation, node.Key())
			return false
		}
		return true
	})
	return err
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

Each node with a NIL child has the same black depth to the root.
*/
func BlackViolationValidate[K infra.OrderedKey](tree OSTree[K]) (err error) {
	blackDepth := -1
	inorder[K](tree, func(idx int64, node OSNode[K]) bool {
		if node.Left() != nil && node.Right() != nil {
			return true
		}
		depth := blackDepthTo[K](node, nil)
		if blackDepth < 0 {
			blackDepth = depth
		} else if depth != blackDepth {
			err = fmt.Errorf("%w: black depth of %v is %d, expected %d",
				ErrBlackViolation, node.Key(), depth, blackDepth)
			return false
		}
		return true
	})
	return err
}

func SizeViolationValidate[K infra.OrderedKey](tree OSTree[K]) (err error) {
	if sizeOf[K](tree.Root()) != tree.Len() {
		return fmt.Errorf("%w: root size %d, tree len %d", ErrSizeViolation, sizeOf[K](tree.Root()), tree.Len())
	}
	inorder[K](tree, func(idx int64, node OSNode[K]) bool {
		if expected := sizeOf[K](node.Left()) + sizeOf[K](node.Right()) + 1; node.Size() != expected {
			err = fmt.Errorf("%w: size of %v is %d, expected %d",
				ErrSizeViolation, node.Key(), node.Size(), expected)
			return false
		}
		return true
	})
	return err
}

// OrderViolationValidate checks that searching every key reaches its own
// inorder position. It holds iff the keys are unique and in BST order
// under the tree's comparator.
func OrderViolationValidate[K infra.OrderedKey](tree OSTree[K]) (err error) {
	inorder[K](tree, func(idx int64, node OSNode[K]) bool {
		if r := tree.Rank(node.Key()); r != idx {
			err = fmt.Errorf("%w: key %v at inorder position %d, rank %d",
				ErrOrderViolation, node.Key(), idx, r)
			return false
		}
		return true
	})
	return err
}

func Validate[K infra.OrderedKey](tree OSTree[K]) error {
	return multierr.Combine(
		RootViolationValidate[K](tree),
		RedViolationValidate[K](tree),
		BlackViolationValidate[K](tree),
		SizeViolationValidate[K](tree),
		OrderViolationValidate[K](tree),
	)
}
