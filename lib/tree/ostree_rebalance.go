package tree

import "github.com/benz9527/ostree/lib/infra"

// References:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes (the sentinel) are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// os. node.size = node.left.size + node.right.size + 1, sentinel.size = 0.

/*
rotate(X, Left) keeps X at the top of the subtree. The keys of X and its
child S are swapped and the links are shuffled, so X's identity, color
and subtree size stay where they were. S moves down with its own color
and its size is recomputed.

		 |                         |
		 X                         X(s)
		/ \     rotate(X, Left)   / \
	   L   S    ============>  S(x)  Sd
		  / \                 / \
		Sc   Sd              L   Sc

rotate(X, Right) is the mirror.

Compared with a pointer rotation followed by swapping the colors of X
and S, the colors end up at the same positions.
*/
func (tree *osTree[K]) rotate(x *osNode[K], dir RBDirection) {
	op := dir.opposite()
	y := x.child(op)
	if x == tree.sentinel || y == tree.sentinel {
		// impossible run to here
		panic( /* debug assertion */ "[ostree] rotate node x is nil or its child is nil")
	}

	x.key, y.key = y.key, x.key

	sc, sd := y.child(dir), y.child(op)
	x.setChild(sd, op)
	y.setChild(sc, op)
	y.setChild(x.child(dir), dir)
	x.setChild(y, dir)

	y.updateSize()
}

/*
New node X is red by default and its parent P is red. (red-violation)

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: The uncle U is red, grandpa G is black.
Repaint P and U into black. G stays black if it is root, otherwise
it is repainted into red and may be still red-violation with its parent.
Loop to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im2: The uncle U is black, X is the inner grandchild.
Rotate P toward G's side, then the red pair is outer and enter im3.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <P> [U]
	  \                 /
	  <X>             <X>

im3: The uncle U is black, X is the outer grandchild.
Rotate G away from P's side. The key-swap rotation leaves G's black
color at the top and P's red color on the demoted node, so no repaint.

	    [G]                  [P]
	    / \    rotate(G)     / \
	  <P> [U]  ========>   <X> <G>
	  /                          \
	<X>                          [U]
*/
func (tree *osTree[K]) insertRebalance(x *osNode[K]) {
	for x.parent.isRed() {
		p := x.parent
		gp := p.parent
		dir := p.side()
		uncle := gp.child(dir.opposite())

		if /* im1 */ uncle.isRed() {
			p.color = Black
			uncle.color = Black
			if gp == tree.root() {
				return
			}
			gp.color = Red
			x = gp
			continue
		}

		if /* im2 */ x == p.child(dir.opposite()) {
			tree.rotate(p, dir)
		}
		/* im3 */
		tree.rotate(gp, dir.opposite())
		return
	}
}

/*
Current node X (may be the sentinel) is short of one black node.
S is X's sibling, Sc is the nephew at X's side (inner), Sd is the
nephew at the opposite side (outer).

	typ = (Sc is black ? 1 : 0) + (Sd is black ? 2 : 0)

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

rm1: P is black, S is red, so Sc and Sd are black (typ 3).
Rotate P toward X. P's black stays at the top, S's red moves down with
P's key. Then the red node is X's new parent, Sc is X's new sibling,
and it falls into the typ switch below.

	  [P]                  [S]
	  / \   rotate(P)      / \
	[X] <S>  ========>   <P> [Sd]
	    / \              / \
	 [Sc] [Sd]         [X] [Sc]

rm2: P, S, Sc and Sd are all black.
Repaint S into red, then P's subtree is short of one black node.
Loop to fix P, stop at root.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3 (typ 2): Sc is red and Sd is black.
Rotate S away from X, the red node becomes the outer nephew.
Fall through into rm4.

	  {P}                  {P}
	  / \   rotate(S)      / \
	[X] [S]  ========>   [X] [Sc]
	    / \                    \
	  <Sc> [Sd]                <S>
	                             \
	                             [Sd]

rm4 (typ 0, 1): Sd is red.
Repaint Sd into black and rotate P toward X. P's color stays at the
top and S's black moves down with P's key.

	  {P}                  {S}
	  / \   rotate(P)      / \
	[X] [S]  ========>   [P] [Sd]
	    / \              / \
	 {Sc} <Sd>         [X] {Sc}

rm5 (typ 3): P is red, S, Sc and Sd are black.
Repaint P into black and S into red.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]
*/
func (tree *osTree[K]) removeRebalance(x *osNode[K], dir RBDirection) {
	for {
		p := x.parent
		if p == tree.sentinel {
			// x is root
			return
		}

		op := dir.opposite()
		sibling := p.child(op)
		sc, sd := sibling.child(dir), sibling.child(op)
		typ := nephewType(sc, sd)

		if p.isBlack() && typ == 3 {
			if /* rm1 */ sibling.isRed() {
				tree.rotate(p, dir)
				p, sibling = sibling, sc
				sc, sd = sibling.child(dir), sibling.child(op)
				typ = nephewType(sc, sd)
			} else /* rm2 */ {
				sibling.color = Red
				x, dir = p, p.side()
				continue
			}
		}

		switch typ {
		case /* rm3 */ 2:
			tree.rotate(sibling, op)
			sd = sibling.child(op)
			fallthrough
		case /* rm4 */ 0, 1:
			sd.color = Black
			tree.rotate(p, dir)
		case /* rm5 */ 3:
			p.color = Black
			sibling.color = Red
		default:
			// impossible run to here
			panic( /* debug assertion */ "[ostree] remove rebalance with unknown nephew type")
		}
		return
	}
}

func nephewType[K infra.OrderedKey](sc, sd *osNode[K]) int {
	typ := 0
	if sc.isBlack() {
		typ += 1
	}
	if sd.isBlack() {
		typ += 2
	}
	return typ
}
