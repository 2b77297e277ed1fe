// Package pkg provides the core libraries for ttgen, the tabletop scene
// compiler.
//
// # Overview
//
// ttgen turns a declarative scene document (components, players and a
// nested layout) into a Tabletop Simulator save. The pkg directory is
// organized into three areas:
//
//  1. Compilation - [schema], [scene], [layout], [annotation], [tts]
//  2. Orchestration - [loader], [compiler], [assets], [ids]
//  3. Infrastructure - [cache], [store], [config], [observability]
//
// # Architecture
//
// The data flow through one compilation:
//
//	YAML / JSON / TOML document
//	         ↓
//	    [loader] (raw ordered tree)
//	         ↓
//	    [schema] + [scene] (tagged components → registry)
//	         ↓
//	    [layout] (build tree, bind references, size, place)
//	         ↓
//	    [annotation] (snap points and boxes on the table)
//	         ↓
//	    [tts] (save JSON)
//
// # Quick Start
//
//	doc, _, err := loader.LoadFile("solitaire.yaml")
//	if err != nil {
//	    return err
//	}
//	res, err := compiler.Compile(doc, compiler.Options{Strict: true})
//	if err != nil {
//	    return err // coded, see errors.GetCode
//	}
//	save, err := tts.NewSerializer(ids.NewRandom(), assets.Static{}).Serialize(tts.Scene{
//	    Name:     res.Name,
//	    Registry: res.Registry,
//	    Players:  res.Players,
//	})
//
// [compiler.Runner] wraps the same steps with an artifact cache and is what
// the CLI and the HTTP service use.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test -run Example ./... # Examples only
//
// [schema]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/schema
// [scene]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/scene
// [layout]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/layout
// [annotation]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/annotation
// [tts]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/tts
// [loader]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/loader
// [compiler]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/compiler
// [compiler.Runner]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/compiler#Runner
// [assets]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/assets
// [ids]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/ids
// [cache]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/ttgen/pkg/observability
package pkg
