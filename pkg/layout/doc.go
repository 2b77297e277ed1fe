// Package layout arranges scene components on the table without absolute
// coordinates.
//
// A layout is a tree of tagged nodes:
//
//   - VerticalBox / HorizontalBox stack their items along one axis
//   - OpenDeck reserves a row of card slots next to a deck
//   - LayoutItem places one component by its declared footprint
//   - Spacer reserves empty room
//
// Compilation runs in two phases. [Builder] resolves the raw tree, building
// children before their parent and binding every component reference against
// the scene registry; a broken reference fails here, before any arithmetic.
// [Resolver] then walks the built tree top-down, writing each referenced
// component's ground position exactly once and collecting snap points and
// boxes into an annotation set.
//
// Sizes are pure functions of a node's parameters and its children, so they
// never depend on positions:
//
//	OpenDeck.Width      = SlotWidth*(count+1) + margin*count
//	OpenDeck.Height     = SlotHeight
//	VerticalBox.Height  = sum(child heights) + margin*(n-1)
//	VerticalBox.Width   = max(child widths)
//
// HorizontalBox is the transpose. Empty containers measure 0×0.
package layout
