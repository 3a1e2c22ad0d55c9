package tree

import "github.com/benz9527/ostree/lib/infra"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (dir RBDirection) opposite() RBDirection {
	return -dir
}

// OSNode is the read-only view of an order-statistics tree node.
// The tree's sentinel is never exposed, absent links are nil.
type OSNode[K infra.OrderedKey] interface {
	Key() K
	HasKey() bool
	Color() RBColor
	// Size is the number of keys in the subtree rooted here, inclusive.
	Size() int64
	Left() OSNode[K]
	Right() OSNode[K]
	Parent() OSNode[K]
}

// OSTree is an order-statistics red-black tree of unique keys.
// It is not safe for concurrent use.
type OSTree[K infra.OrderedKey] interface {
	Len() int64
	Root() OSNode[K]
	// Insert returns the key and true, or false if the key is already present.
	Insert(key K) (K, bool)
	// Remove returns the key and true, or false if the key is absent.
	Remove(key K) (K, bool)
	// Select fetches the i-th smallest key, i starts from 1.
	Select(i int64) (K, bool)
	// Rank returns the 1-indexed position of key, 0 if it is absent.
	Rank(key K) int64
	IsValid() bool
	Release()
	String() string
}
