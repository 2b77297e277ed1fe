// Package scene defines the components a scene document declares and the
// registry that owns them during one compilation.
//
// # Components
//
// Every component embeds [Base] (name, transform, declared footprint) and is
// one of a closed set of variants selected by its __tag__ discriminator:
//
//   - [Board]: a custom board image, optionally with its own snap points
//   - [Deck]: a custom card deck
//   - [Model]: a custom 3D model
//   - [TokenStack]: a stack of identical tokens
//   - [Table]: the play surface (FlexTable or HardwoodTable)
//
// [Decode] resolves one raw component mapping through [Components], the
// package's closed variant resolver.
//
// # Identity
//
// A component is identified by its registry key "{tag}:{name}", so a Deck
// and a Board may share a name. Tables are the exception: every table
// variant registers under the literal key "table", which limits a scene to
// one table. [Registry.Resolve] accepts either a key or a unique name.
//
// # Players
//
// The optional players section resolves through [PlayerLayouts] into a
// [Players] value that derives hand zones from the table size.
package scene
