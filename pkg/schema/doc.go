// Package schema turns untyped scene trees into typed records.
//
// A scene document arrives as a tree of mappings, sequences and scalars. Each
// mapping that describes a component or layout node carries a discriminator
// field (__tag__) naming its variant. This package provides:
//
//   - [Field] and [Schema]: declarative per-field descriptors (string, float,
//     int, bool, nested record, list of, map of, raw)
//   - [Decoder]: one recursive interpreter that coerces a raw value against a
//     descriptor, filling defaults and rejecting unknown fields in strict mode
//   - [Resolver]: a closed registry mapping discriminator tags to variant
//     constructors, so an unknown tag is a checked UNKNOWN_VARIANT error
//   - [Map]: an insertion-ordered mapping used by loaders that keep the
//     author's key order
//
// # Usage
//
//	deck := schema.New("Deck",
//	    schema.Int("count", 52),
//	    schema.Str("face_url", ""),
//	)
//
//	r := schema.NewResolver[Component]("component")
//	r.Register(schema.Variant[Component]{Tag: "Deck", Schema: deck, New: newDeck})
//
//	c, err := r.Resolve(schema.Decoder{Strict: true}, raw, "components.market")
//
// All failures are [errors.ErrCodeMalformedField] or
// [errors.ErrCodeUnknownVariant] errors whose message starts with the
// document path of the offending value.
package schema
