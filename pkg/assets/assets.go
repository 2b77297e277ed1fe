// Package assets locates the images a scene refers to by component name
// when the document gives no explicit URL.
package assets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/ttgen/pkg/errors"
)

// Asset kinds, each a subdirectory of an asset directory.
const (
	KindBoards = "boards"
	KindDecks  = "decks"
	KindTokens = "token_stack"
)

// Extensions are tried in order.
var Extensions = []string{".png", ".jpg"}

// Resolver maps a (kind, name) pair to an image URL.
type Resolver interface {
	ImageURL(kind, name string) (string, error)
}

// Dir looks assets up below a base directory as <Base>/<kind>/<name><ext>
// and returns file:// URLs.
type Dir struct {
	Base string
}

// ImageURL implements Resolver.
func (d Dir) ImageURL(kind, name string) (string, error) {
	if err := errors.ValidatePath(name); err != nil {
		return "", err
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return "", errors.New(errors.ErrCodeInvalidPath, "asset name %q must not contain path separators", name)
	}
	for _, ext := range Extensions {
		p := filepath.Join(d.Base, kind, name+ext)
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "resolve %s", p)
		}
		return FileURL(abs), nil
	}
	return "", errors.New(errors.ErrCodeAssetNotFound,
		"image not found for %s (tried %s)", filepath.Join(d.Base, kind, name), strings.Join(Extensions, ", "))
}

// FileURL converts an absolute path to a file:// URL.
func FileURL(abs string) string {
	u := filepath.ToSlash(abs)
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return "file://" + u
}

// Static serves URLs from a fixed table keyed "kind/name".
type Static map[string]string

// ImageURL implements Resolver.
func (s Static) ImageURL(kind, name string) (string, error) {
	if u, ok := s[kind+"/"+name]; ok {
		return u, nil
	}
	return "", errors.New(errors.ErrCodeAssetNotFound, "no image registered for %s/%s", kind, name)
}

// Chain tries each resolver in order and returns the first URL found.
type Chain []Resolver

// ImageURL implements Resolver.
func (c Chain) ImageURL(kind, name string) (string, error) {
	var last error = errors.New(errors.ErrCodeAssetNotFound, "no image for %s/%s", kind, name)
	for _, r := range c {
		u, err := r.ImageURL(kind, name)
		if err == nil {
			return u, nil
		}
		last = err
	}
	return "", last
}
