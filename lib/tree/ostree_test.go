package tree

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/benz9527/ostree/lib/infra"
)

func TestNilNode(t *testing.T) {
	var nilNode OSNode[uint64] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *osNode[uint64] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)
	require.False(t, nilNode.HasKey())
	require.Equal(t, int64(0), nilNode.Size())
	require.Nil(t, nilNode.Left())
	require.Nil(t, nilNode.Right())
	require.Nil(t, nilNode.Parent())
}

func TestOSTreeEmpty(t *testing.T) {
	tree := NewOSTree[int]()
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
	require.Equal(t, "empty", tree.String())
	require.True(t, tree.IsValid())

	_, ok := tree.Select(1)
	require.False(t, ok)
	_, ok = tree.Remove(1)
	require.False(t, ok)
	require.Equal(t, int64(0), tree.Rank(1))

	tree.Release()
	require.Equal(t, "empty", tree.String())
}

func TestOSTreeSentinel(t *testing.T) {
	tree := NewOSTree[int]().(*osTree[int])
	for _, k := range []int{4, 2, 6, 1, 3, 5, 7} {
		tree.Insert(k)
		require.Equal(t, Black, tree.sentinel.color)
		require.Equal(t, int64(0), tree.sentinel.size)
		require.False(t, tree.sentinel.HasKey())
	}
	require.Same(t, tree.root(), tree.sentinel.left)
	require.Same(t, tree.sentinel, tree.root().parent)
	for _, k := range []int{4, 1, 7, 2} {
		tree.Remove(k)
		require.Equal(t, Black, tree.sentinel.color)
		require.Equal(t, int64(0), tree.sentinel.size)
	}
}

func TestOSTreeNodeAccessors(t *testing.T) {
	tree := NewOSTree[int]()
	for _, k := range []int{5, 3, 8} {
		tree.Insert(k)
	}

	root := tree.Root()
	require.NotNil(t, root)
	require.True(t, root.HasKey())
	require.Equal(t, 5, root.Key())
	require.Equal(t, Black, root.Color())
	require.Equal(t, int64(3), root.Size())
	require.Nil(t, root.Parent())
	require.Equal(t, Root, root.(*osNode[int]).Direction())

	l, r := root.Left(), root.Right()
	require.Equal(t, 3, l.Key())
	require.Equal(t, 8, r.Key())
	require.Equal(t, Red, l.Color())
	require.Equal(t, Red, r.Color())
	require.Equal(t, int64(1), l.Size())
	require.Nil(t, l.Left())
	require.Nil(t, l.Right())
	require.Same(t, root, l.Parent())
	require.Equal(t, Left, l.(*osNode[int]).Direction())
	require.Equal(t, Right, r.(*osNode[int]).Direction())

	// Released nodes report no key.
	tree.Release()
	require.False(t, root.HasKey())
	require.False(t, l.HasKey())
	require.Nil(t, root.Left())
}

func TestRBColorAndDirectionString(t *testing.T) {
	require.Equal(t, "Black", Black.String())
	require.Equal(t, "Red", Red.String())
	require.Equal(t, "Left", Left.String())
	require.Equal(t, "Root", Root.String())
	require.Equal(t, "Right", Right.String())
	require.Equal(t, Right, Left.opposite())
	require.Equal(t, Left, Right.opposite())
}

func TestOSTreeRotate(t *testing.T) {
	tree := NewOSTree[int]().(*osTree[int])
	for _, k := range []int{4, 2, 6, 1, 3, 5, 7} {
		tree.Insert(k)
	}
	require.Equal(t, "(B 4,(B 2,(R 1,NIL,NIL),(R 3,NIL,NIL)),(B 6,(R 5,NIL,NIL),(R 7,NIL,NIL)))", tree.String())

	root := tree.root()
	tree.rotate(root, Left)
	require.Same(t, root, tree.root(), "rotation keeps the node identity at the top")
	require.Equal(t, "(B 6,(B 4,(B 2,(R 1,NIL,NIL),(R 3,NIL,NIL)),(R 5,NIL,NIL)),(R 7,NIL,NIL))", tree.String())
	require.Equal(t, int64(7), root.size)
	require.Equal(t, int64(5), root.left.size)
	require.Equal(t, int64(1), root.right.size)
	require.NoError(t, SizeViolationValidate[int](tree))
	require.NoError(t, OrderViolationValidate[int](tree))

	tree.rotate(root, Right)
	require.Equal(t, "(B 4,(B 2,(R 1,NIL,NIL),(R 3,NIL,NIL)),(B 6,(R 5,NIL,NIL),(R 7,NIL,NIL)))", tree.String())
	require.NoError(t, Validate[int](tree))
}

func TestOSTreeInsertCases(t *testing.T) {
	testcases := []struct {
		name     string
		keys     []int
		expected string
	}{
		{
			name:     "outer grandchild",
			keys:     []int{1, 2, 3},
			expected: "(B 2,(R 1,NIL,NIL),(R 3,NIL,NIL))",
		},
		{
			name:     "inner grandchild",
			keys:     []int{3, 1, 2},
			expected: "(B 2,(R 1,NIL,NIL),(R 3,NIL,NIL))",
		},
		{
			name:     "mirrored inner grandchild",
			keys:     []int{1, 3, 2},
			expected: "(B 2,(R 1,NIL,NIL),(R 3,NIL,NIL))",
		},
		{
			name:     "red uncle stops at root",
			keys:     []int{1, 2, 3, 4},
			expected: "(B 2,(B 1,NIL,NIL),(B 3,NIL,(R 4,NIL,NIL)))",
		},
		{
			name:     "scenario 2 shape",
			keys:     []int{10, 5, 15, 3, 7, 12, 20},
			expected: "(B 10,(B 5,(R 3,NIL,NIL),(R 7,NIL,NIL)),(B 15,(R 12,NIL,NIL),(R 20,NIL,NIL)))",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewOSTree[int]()
			for _, k := range tc.keys {
				key, ok := tree.Insert(k)
				require.True(tt, ok)
				require.Equal(tt, k, key)
				require.NoError(tt, Validate[int](tree))
			}
			require.Equal(tt, tc.expected, tree.String())
		})
	}
}

func TestOSTreeRemoveCases(t *testing.T) {
	testcases := []struct {
		name     string
		keys     []int
		removes  []int
		expected []string
	}{
		{
			name:    "far nephew red then cascade to root",
			keys:    []int{1, 2, 3, 4},
			removes: []int{1, 2, 3, 4},
			expected: []string{
				"(B 3,(B 2,NIL,NIL),(B 4,NIL,NIL))",
				"(B 3,NIL,(R 4,NIL,NIL))",
				"(B 4,NIL,NIL)",
				"empty",
			},
		},
		{
			name:    "two children borrow succ",
			keys:    []int{10, 5, 15, 3, 7, 12, 20},
			removes: []int{10},
			expected: []string{
				"(B 12,(B 5,(R 3,NIL,NIL),(R 7,NIL,NIL)),(B 15,NIL,(R 20,NIL,NIL)))",
			},
		},
		{
			name:    "black node with red child",
			keys:    []int{2, 1, 3, 4},
			removes: []int{3},
			expected: []string{
				"(B 2,(B 1,NIL,NIL),(B 4,NIL,NIL))",
			},
		},
		{
			name:    "red parent black nephews",
			keys:    []int{4, 2, 6, 1, 3, 5, 7, 8},
			removes: []int{8, 5},
			expected: []string{
				"(B 4,(B 2,(R 1,NIL,NIL),(R 3,NIL,NIL)),(R 6,(B 5,NIL,NIL),(B 7,NIL,NIL)))",
				"(B 4,(B 2,(R 1,NIL,NIL),(R 3,NIL,NIL)),(B 6,NIL,(R 7,NIL,NIL)))",
			},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewOSTree[int]()
			for _, k := range tc.keys {
				tree.Insert(k)
			}
			for i, k := range tc.removes {
				key, ok := tree.Remove(k)
				require.True(tt, ok)
				require.Equal(tt, k, key)
				require.Equal(tt, tc.expected[i], tree.String())
				require.NoError(tt, Validate[int](tree))
			}
		})
	}
}

func TestOSTreeScenario1_BasicInsertSelectRank(t *testing.T) {
	tree := NewOSTree[int]()

	for _, k := range []int{5, 3, 8} {
		key, ok := tree.Insert(k)
		require.True(t, ok)
		require.Equal(t, k, key)
	}
	_, ok := tree.Insert(3)
	require.False(t, ok)

	for i, expected := range []int{3, 5, 8} {
		key, ok := tree.Select(int64(i + 1))
		require.True(t, ok)
		require.Equal(t, expected, key)
	}
	require.Equal(t, int64(2), tree.Rank(5))
	require.Equal(t, int64(0), tree.Rank(9))
	require.Equal(t, int64(3), tree.Len())
	require.Equal(t, "(B 5,(R 3,NIL,NIL),(R 8,NIL,NIL))", tree.String())
}

func TestOSTreeScenario2_RemoveTwoChildren(t *testing.T) {
	tree := NewOSTree[int]()
	for _, k := range []int{10, 5, 15, 3, 7, 12, 20} {
		tree.Insert(k)
	}

	key, ok := tree.Remove(10)
	require.True(t, ok)
	require.Equal(t, 10, key)

	require.Equal(t, int64(6), tree.Len())
	require.Equal(t, []int{3, 5, 7, 12, 15, 20}, selectAll(t, tree))
	key, ok = tree.Select(3)
	require.True(t, ok)
	require.Equal(t, 7, key)
	require.Equal(t, int64(4), tree.Rank(12))
	require.True(t, tree.IsValid())
}

func TestOSTreeScenario3_RemoveSingleRoot(t *testing.T) {
	tree := NewOSTree[int]()
	tree.Insert(42)

	key, ok := tree.Remove(42)
	require.True(t, ok)
	require.Equal(t, 42, key)
	require.Equal(t, int64(0), tree.Len())
	_, ok = tree.Select(1)
	require.False(t, ok)
	require.Equal(t, "empty", tree.String())

	key, ok = tree.Insert(7)
	require.True(t, ok)
	require.Equal(t, 7, key)
	require.Equal(t, int64(1), tree.Rank(7))
	require.True(t, tree.IsValid())
}

func TestOSTreeScenario4_DuplicateAndAbsent(t *testing.T) {
	tree := NewOSTree[int]()
	tree.Insert(1)

	_, ok := tree.Insert(1)
	require.False(t, ok)
	_, ok = tree.Remove(2)
	require.False(t, ok)
	_, ok = tree.Select(2)
	require.False(t, ok)
	require.Equal(t, int64(1), tree.Len())
	require.Equal(t, "(B 1,NIL,NIL)", tree.String())
}

func TestOSTreeScenario5_AscendingStress(t *testing.T) {
	tree := NewOSTree[int]()
	for _, k := range lo.RangeFrom(1, 100) {
		_, ok := tree.Insert(k)
		require.True(t, ok)
		require.True(t, tree.IsValid())
	}
	require.Equal(t, int64(100), tree.Len())
	key, ok := tree.Select(50)
	require.True(t, ok)
	require.Equal(t, 50, key)
	require.Equal(t, int64(75), tree.Rank(75))
	require.NoError(t, BlackViolationValidate[int](tree))

	for _, k := range lo.RangeFrom(1, 50) {
		_, ok := tree.Remove(k)
		require.True(t, ok)
		require.True(t, tree.IsValid())
	}
	require.Equal(t, int64(50), tree.Len())
	key, ok = tree.Select(1)
	require.True(t, ok)
	require.Equal(t, 51, key)
	require.Equal(t, int64(50), tree.Rank(100))
}

func TestOSTreeDesc(t *testing.T) {
	tree := NewOSTree[int](WithOSTreeDesc[int]())
	for _, k := range lo.RangeFrom(1, 10) {
		tree.Insert(k)
	}
	require.True(t, tree.IsValid())
	require.Equal(t, []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, selectAll(t, tree))
	require.Equal(t, int64(1), tree.Rank(10))
	require.Equal(t, int64(10), tree.Rank(1))

	tree.Remove(10)
	key, ok := tree.Select(1)
	require.True(t, ok)
	require.Equal(t, 9, key)
	require.True(t, tree.IsValid())
}

func TestOSTreeComparator(t *testing.T) {
	foldCmp := infra.OrderedKeyComparator[string](func(i, j string) int64 {
		return infra.AscComparator[string]()(strings.ToLower(i), strings.ToLower(j))
	})
	tree := NewOSTree[string](WithOSTreeComparator[string](foldCmp))

	for _, k := range []string{"banana", "Apple", "cherry"} {
		_, ok := tree.Insert(k)
		require.True(t, ok)
	}
	_, ok := tree.Insert("APPLE")
	require.False(t, ok)
	require.Equal(t, []string{"Apple", "banana", "cherry"}, selectAll(t, tree))
	require.Equal(t, int64(1), tree.Rank("apple"))

	key, ok := tree.Remove("BANANA")
	require.True(t, ok)
	require.Equal(t, "banana", key, "the stored key is returned")
	require.True(t, tree.IsValid())

	desc := NewOSTree[string](WithOSTreeComparator[string](foldCmp), WithOSTreeDesc[string]())
	for _, k := range []string{"b", "A", "c"} {
		desc.Insert(k)
	}
	require.Equal(t, []string{"c", "b", "A"}, selectAll(t, desc))
}

func TestOSTreeRelease(t *testing.T) {
	tree := NewOSTree[uint64]()
	for k := uint64(1); k <= 64; k++ {
		tree.Insert(k)
	}
	require.Equal(t, int64(64), tree.Len())

	tree.Release()
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
	require.Equal(t, "empty", tree.String())
	require.True(t, tree.IsValid())

	_, ok := tree.Insert(9)
	require.True(t, ok)
	require.Equal(t, int64(1), tree.Rank(9))
}

func TestValidateCatchesViolations(t *testing.T) {
	newTree := func() *osTree[int] {
		tree := NewOSTree[int]().(*osTree[int])
		for _, k := range []int{4, 2, 6, 1, 3, 5, 7} {
			tree.Insert(k)
		}
		require.NoError(t, Validate[int](tree))
		return tree
	}

	tree := newTree()
	tree.root().color = Red
	require.ErrorIs(t, Validate[int](tree), ErrRootViolation)
	require.False(t, tree.IsValid())

	tree = newTree()
	tree.root().left.color = Red
	require.ErrorIs(t, RedViolationValidate[int](tree), ErrRedViolation)

	tree = newTree()
	tree.root().left.left.color = Black
	require.ErrorIs(t, BlackViolationValidate[int](tree), ErrBlackViolation)

	tree = newTree()
	tree.root().right.size++
	require.ErrorIs(t, SizeViolationValidate[int](tree), ErrSizeViolation)

	tree = newTree()
	tree.root().left.left.key = 9
	require.ErrorIs(t, OrderViolationValidate[int](tree), ErrOrderViolation)
	require.False(t, tree.IsValid())
}

func selectAll[K infra.OrderedKey](t *testing.T, tree OSTree[K]) []K {
	t.Helper()
	keys := make([]K, 0, tree.Len())
	for i := int64(1); i <= tree.Len(); i++ {
		key, ok := tree.Select(i)
		require.True(t, ok)
		keys = append(keys, key)
	}
	return keys
}
