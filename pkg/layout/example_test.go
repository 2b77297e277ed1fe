package layout_test

import (
	"fmt"

	"github.com/matzehuels/ttgen/pkg/layout"
	"github.com/matzehuels/ttgen/pkg/schema"
	"github.com/matzehuels/ttgen/pkg/scene"
)

func Example() {
	components := schema.NewMap()
	components.Set("draw", map[string]any{"__tag__": "Deck"})
	reg, _ := scene.DecodeAll(schema.Decoder{Strict: true}, components, "components")

	raw := []any{
		map[string]any{"__tag__": "OpenDeck", "deck": "draw", "count": "1"},
	}
	root, err := layout.NewBuilder(schema.Decoder{Strict: true}, reg).BuildRoot(raw, 0.8)
	if err != nil {
		fmt.Println(err)
		return
	}

	anns, _ := layout.NewResolver(reg).Resolve(root, 0, 0)

	deck, _ := reg.Lookup("Deck:draw")
	fmt.Printf("row: %.1f x %.1f\n", root.Width(), root.Height())
	fmt.Printf("deck at x=%.1f\n", deck.Common().Position.X)
	for _, p := range anns.SnapPoints() {
		fmt.Printf("snap %.1f\n", p.X)
	}
	fmt.Println("boxes:", len(anns.Boxes()))
	// Output:
	// row: 4.8 x 3.2
	// deck at x=-1.3
	// snap -1.3
	// snap 1.3
	// boxes: 1
}
