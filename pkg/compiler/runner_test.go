package compiler

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ttgen/pkg/cache"
	"github.com/matzehuels/ttgen/pkg/errors"
	"github.com/matzehuels/ttgen/pkg/loader"
	"github.com/matzehuels/ttgen/pkg/observability"
	"github.com/matzehuels/ttgen/pkg/tts"
)

func quietRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	var buf bytes.Buffer
	return NewRunner(c, nil, log.New(&buf))
}

func TestExecute(t *testing.T) {
	r := quietRunner(t, nil)
	out, err := r.Execute(context.Background(), []byte(demoScene), loader.FormatYAML, Options{Seed: "s"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.Name != "demo" || out.CacheHit || out.Result == nil {
		t.Errorf("out = %+v", out)
	}
	if out.Hash != cache.Hash([]byte(demoScene)) {
		t.Errorf("Hash = %s", out.Hash)
	}

	save, err := tts.Unmarshal(out.Save)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if save.SaveName != "demo" {
		t.Errorf("SaveName = %q", save.SaveName)
	}
	if got := save.ObjectCount(); got != out.ObjectCount {
		t.Errorf("ObjectCount = %d, out reports %d", got, out.ObjectCount)
	}
	if len(save.Hands.HandTransforms) != 2 {
		t.Errorf("hand transforms = %d, want 2", len(save.Hands.HandTransforms))
	}
}

func TestExecuteCaches(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(t, fc)

	first, err := r.Execute(ctx, []byte(demoScene), loader.FormatYAML, Options{})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	second, err := r.Execute(ctx, []byte(demoScene), loader.FormatYAML, Options{})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if first.CacheHit || !second.CacheHit {
		t.Errorf("hits = %v, %v, want false, true", first.CacheHit, second.CacheHit)
	}
	if !bytes.Equal(first.Save, second.Save) {
		t.Error("cached save differs from compiled save")
	}
	if second.Name != "demo" || second.Result != nil || second.ObjectCount != first.ObjectCount {
		t.Errorf("cached output = %+v", second)
	}

	third, err := r.Execute(ctx, []byte(demoScene), loader.FormatYAML, Options{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("changed options must not hit the cache")
	}
}

func TestExecuteSeededIsReproducible(t *testing.T) {
	ctx := context.Background()
	r := quietRunner(t, nil)

	a, err := r.Execute(ctx, []byte(demoScene), loader.FormatYAML, Options{Seed: "42"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := r.Execute(ctx, []byte(demoScene), loader.FormatYAML, Options{Seed: "42"})
	c, _ := r.Execute(ctx, []byte(demoScene), loader.FormatYAML, Options{Seed: "43"})
	if !bytes.Equal(a.Save, b.Save) {
		t.Error("same seed produced different saves")
	}
	if bytes.Equal(a.Save, c.Save) {
		t.Error("different seeds produced identical saves")
	}
}

func TestExecuteErrors(t *testing.T) {
	r := quietRunner(t, nil)
	tests := []struct {
		name     string
		src      string
		format   loader.Format
		wantCode errors.Code
	}{
		{"syntax", "name: [", loader.FormatYAML, errors.ErrCodeInvalidFormat},
		{"bad json", `{"name": }`, loader.FormatJSON, errors.ErrCodeInvalidFormat},
		{"unknown variant", "name: x\ncomponents:\n  c: {__tag__: Dice}\n", loader.FormatYAML, errors.ErrCodeUnknownVariant},
		{"missing asset", "name: x\ncomponents:\n  c: {__tag__: Board}\n", loader.FormatYAML, errors.ErrCodeAssetNotFound},
		{"huge deck", "name: x\ncomponents:\n  c: {__tag__: Deck, count: \"1099511627776\"}\n", loader.FormatYAML, errors.ErrCodeMalformedField},
		{"infinite margin", "name: x\ncomponents:\n  c: {__tag__: Deck, count: 1}\nlayout:\n  - {__tag__: OpenDeck, deck: c, margin: \"inf\"}\n", loader.FormatYAML, errors.ErrCodeMalformedField},
		{"huge open deck", "name: x\ncomponents:\n  c: {__tag__: Deck, count: 1}\nlayout:\n  - {__tag__: OpenDeck, deck: c, count: 1099511627776}\n", loader.FormatYAML, errors.ErrCodeMalformedField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), []byte(tt.src), tt.format, Options{})
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %s, want %s (%v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestExecuteFormats(t *testing.T) {
	json := `{"name": "j", "components": {"cards": {"__tag__": "Deck", "count": 2, "face_url": "f", "back_url": "b"}},
"layout": [{"__tag__": "OpenDeck", "deck": "cards"}]}`
	toml := `name = "t"
[components.cards]
__tag__ = "Deck"
count = 2
face_url = "f"
back_url = "b"
[[layout]]
__tag__ = "OpenDeck"
deck = "cards"
`
	r := quietRunner(t, nil)
	for _, tt := range []struct {
		format loader.Format
		src    string
		name   string
	}{
		{loader.FormatJSON, json, "j"},
		{loader.FormatTOML, toml, "t"},
	} {
		t.Run(string(tt.format), func(t *testing.T) {
			out, err := r.Execute(context.Background(), []byte(tt.src), tt.format, Options{Strict: true})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if out.Name != tt.name || out.Result.Stats.SnapPoints != 2 {
				t.Errorf("out = %s, snap points %d", out.Name, out.Result.Stats.SnapPoints)
			}
		})
	}
}

type recordingHooks struct {
	observability.NoopCompileHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnLoadStart(context.Context, string, int) { h.add("load") }
func (h *recordingHooks) OnCompileComplete(_ context.Context, scene string, _ int, _ time.Duration, err error) {
	if err == nil {
		h.add("compile:" + scene)
	}
}
func (h *recordingHooks) OnSerializeComplete(_ context.Context, _ string, objects int, _ time.Duration, _ error) {
	if objects > 0 {
		h.add("serialize")
	}
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetCompileHooks(hooks)
	defer observability.Reset()

	r := quietRunner(t, nil)
	if _, err := r.Execute(context.Background(), []byte(demoScene), loader.FormatYAML, Options{}); err != nil {
		t.Fatal(err)
	}
	want := []string{"load", "compile:demo", "serialize"}
	if len(hooks.events) != len(want) {
		t.Fatalf("events = %v, want %v", hooks.events, want)
	}
	for i := range want {
		if hooks.events[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, hooks.events[i], want[i])
		}
	}
}
