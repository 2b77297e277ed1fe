package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/ttgen/pkg/config"
	"github.com/matzehuels/ttgen/pkg/errors"
	"github.com/matzehuels/ttgen/pkg/loader"
	"github.com/matzehuels/ttgen/pkg/tts"
)

const testScene = `
name: solitaire
components:
  table:
    __tag__: FlexTable
  cards:
    __tag__: Deck
    count: 2
    face_url: face.png
    back_url: back.png
  board:
    __tag__: Board
    image_url: board.png
    width: 4
    height: 4
layout:
  - __tag__: HorizontalBox
    items:
      - __tag__: OpenDeck
        deck: cards
      - __tag__: LayoutItem
        item: board
`

func typeName(v any) string { return fmt.Sprintf("%T", v) }

// isolate points every config and cache lookup at fresh temp dirs.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	for _, k := range []string{"TTGEN_STRICT", "TTGEN_ASSETS", "TTGEN_REDIS_ADDR", "TTGEN_MONGO_URI", "TTGEN_ADDR"} {
		t.Setenv(k, "")
	}
}

func writeScene(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompileCommand(t *testing.T) {
	isolate(t)
	scenePath := writeScene(t, "solitaire.yaml", testScene)
	outDir := t.TempDir()

	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"compile", scenePath, "-o", outDir, "--seed", "fixed"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("compile: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "solitaire.json"))
	if err != nil {
		t.Fatalf("save not written: %v", err)
	}
	save, err := tts.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if save.SaveName != "solitaire" {
		t.Errorf("SaveName = %q, want solitaire", save.SaveName)
	}

	// a second seeded run hits the cache and writes the same bytes
	root = c.RootCommand()
	root.SetArgs([]string{"compile", scenePath, "-o", outDir, "--seed", "fixed"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("second compile: %v", err)
	}
	again, err := os.ReadFile(filepath.Join(outDir, "solitaire.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Error("seeded recompile changed the save")
	}
}

func TestCompileCommandErrors(t *testing.T) {
	isolate(t)
	badTag := writeScene(t, "bad.yaml", "name: x\ncomponents:\n  a:\n    __tag__: Spaceship\n")
	lax := writeScene(t, "lax.yaml", "name: x\nextra: 1\ncomponents:\n  t:\n    __tag__: FlexTable\n    colour: red\n")

	tests := []struct {
		name     string
		args     []string
		wantCode errors.Code
	}{
		{"missing file", []string{"compile", filepath.Join(t.TempDir(), "nope.yaml")}, errors.ErrCodeFileNotFound},
		{"unknown extension", []string{"compile", writeScene(t, "scene.txt", testScene)}, errors.ErrCodeInvalidFormat},
		{"unknown tag", []string{"compile", badTag, "--no-cache"}, errors.ErrCodeUnknownVariant},
		{"strict rejects extra field", []string{"compile", lax, "--no-cache", "-o", t.TempDir()}, errors.ErrCodeMalformedField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
			root.SetArgs(tt.args)
			root.SetErr(&bytes.Buffer{})
			err := root.ExecuteContext(context.Background())
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
		})
	}

	t.Run("lax accepts extra field", func(t *testing.T) {
		root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
		root.SetArgs([]string{"compile", lax, "--no-cache", "--strict=false", "-o", t.TempDir()})
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Errorf("lax compile: %v", err)
		}
	})
}

func TestCompileCommandConfig(t *testing.T) {
	isolate(t)
	outDir := t.TempDir()
	cfgPath := writeScene(t, "ttgen.toml", fmt.Sprintf("output_dir = %q\n\n[cache]\nbackend = \"none\"\n", outDir))
	scenePath := writeScene(t, "solitaire.yaml", testScene)

	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
	root.SetArgs([]string{"--config", cfgPath, "compile", scenePath})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "solitaire.json")); err != nil {
		t.Errorf("save not written to configured output_dir: %v", err)
	}
}

func TestReadScene(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		format     string
		wantFormat loader.Format
		wantCode   errors.Code
	}{
		{name: "yaml by extension", file: "a.yaml", wantFormat: loader.FormatYAML},
		{name: "yml by extension", file: "a.yml", wantFormat: loader.FormatYAML},
		{name: "json by extension", file: "a.json", wantFormat: loader.FormatJSON},
		{name: "toml by extension", file: "a.toml", wantFormat: loader.FormatTOML},
		{name: "flag overrides extension", file: "a.txt", format: "json", wantFormat: loader.FormatJSON},
		{name: "unknown flag", file: "a.yaml", format: "xml", wantCode: errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScene(t, tt.file, "name: x\n")
			data, f, err := readScene(path, tt.format)
			if tt.wantCode != "" {
				if got := errors.GetCode(err); got != tt.wantCode {
					t.Errorf("code = %q, want %q", got, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("readScene: %v", err)
			}
			if f != tt.wantFormat {
				t.Errorf("format = %q, want %q", f, tt.wantFormat)
			}
			if string(data) != "name: x\n" {
				t.Errorf("data = %q", data)
			}
		})
	}
}

func TestWriteSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	path, err := writeSave(dir, "solitaire", []byte("{}"))
	if err != nil {
		t.Fatalf("writeSave: %v", err)
	}
	if want := filepath.Join(dir, "solitaire.json"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if _, err := writeSave("", "x", nil); errors.GetCode(err) != errors.ErrCodeInvalidPath {
		t.Errorf("empty dir: err = %v, want INVALID_PATH", err)
	}
}

func TestCompileOptions(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.Config.Strict = false
	c.Config.Seed = "abc"
	c.Config.Layout.BoxColor = []float64{0.5, 0.25, 0}

	opts := c.compileOptions()
	if opts.Strict || opts.Seed != "abc" {
		t.Errorf("opts = %+v", opts)
	}
	if opts.BoxColor == nil || opts.BoxColor.R != 0.5 || opts.BoxColor.G != 0.25 {
		t.Errorf("BoxColor = %+v", opts.BoxColor)
	}
	if opts.Logger != c.Logger {
		t.Error("compile options should log through the CLI logger")
	}
}

func TestNewStoreBackends(t *testing.T) {
	isolate(t)
	ctx := context.Background()

	tests := []struct {
		backend string
		want    string
	}{
		{config.StoreNone, "<nil>"},
		{config.StoreMemory, "*store.MemoryStore"},
		{config.StoreFile, "*store.FileStore"},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			c := New(&bytes.Buffer{}, log.InfoLevel)
			c.Config.Store.Backend = tt.backend
			st, err := c.newStore(ctx)
			if err != nil {
				t.Fatalf("newStore: %v", err)
			}
			if st != nil {
				defer st.Close()
			}
			if got := typeName(st); got != tt.want {
				t.Errorf("store = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLayoutTable(t *testing.T) {
	isolate(t)
	c := New(&bytes.Buffer{}, log.InfoLevel)
	res, err := c.compileOnly(context.Background(), writeScene(t, "s.yaml", testScene), "")
	if err != nil {
		t.Fatalf("compileOnly: %v", err)
	}

	out := placementTable(res.Placements)
	for _, want := range []string{"layout[0]", "OpenDeck", "LayoutItem", "cards", "board"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestLayoutDOT(t *testing.T) {
	isolate(t)
	dotPath := filepath.Join(t.TempDir(), "layout.dot")

	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
	root.SetArgs([]string{"layout", writeScene(t, "s.yaml", testScene), "--dot", dotPath})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("dot output starts with %q", firstLine(string(data)))
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func TestComponentListModel(t *testing.T) {
	isolate(t)
	c := New(&bytes.Buffer{}, log.InfoLevel)
	res, err := c.compileOnly(context.Background(), writeScene(t, "s.yaml", testScene), "")
	if err != nil {
		t.Fatalf("compileOnly: %v", err)
	}

	m := NewComponentListModel(res)
	if len(m.Components) != 3 {
		t.Fatalf("components = %d, want 3", len(m.Components))
	}
	if len(m.Placed) != 2 {
		t.Errorf("placed = %d, want 2 (deck and board)", len(m.Placed))
	}

	press := func(m tea.Model, key string) tea.Model {
		var msg tea.KeyMsg
		switch key {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		next, _ := m.Update(msg)
		return next
	}

	var model tea.Model = m
	model = press(model, "down")
	model = press(model, "down")
	model = press(model, "down") // clamps at the last row
	if got := model.(ComponentListModel).Cursor; got != 2 {
		t.Errorf("cursor = %d, want 2", got)
	}
	model = press(model, "up")
	if got := model.(ComponentListModel).Cursor; got != 1 {
		t.Errorf("cursor = %d, want 1", got)
	}

	view := model.View()
	for _, want := range []string{"solitaire", "3 components", "[2/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	if _, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit")
	}
}
