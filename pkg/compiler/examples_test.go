package compiler

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/ttgen/pkg/loader"
	"github.com/matzehuels/ttgen/pkg/tts"
)

// TestExampleScenes compiles every scene shipped in examples/.
func TestExampleScenes(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no example scenes found")
	}

	r := quietRunner(t, nil)
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			doc, _, err := loader.LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			res, err := Compile(doc, Options{Strict: true})
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			if _, ok := res.Registry.Table(); !ok {
				t.Error("example has no table")
			}

			save, err := tts.NewSerializer(r.issuer("examples"), r.Assets).Serialize(tts.Scene{
				Name:     res.Name,
				Registry: res.Registry,
				Players:  res.Players,
			})
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			if save.ObjectCount() == 0 {
				t.Error("save has no objects")
			}
		})
	}
}
