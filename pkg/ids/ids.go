// Package ids issues the object GUIDs and deck numbers a save needs.
//
// An [Issuer] is passed into each compilation, so numbering never leaks
// between runs. [NewRandom] draws GUIDs from random (version 4) UUIDs;
// [NewSeeded] derives them from name-based (version 5) UUIDs so a seed
// reproduces the same save byte for byte.
package ids

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// GUIDLength is the number of hex characters in an object GUID.
const GUIDLength = 6

// Issuer hands out identifiers for one save.
type Issuer interface {
	// GUID returns a GUIDLength hex string not returned before by this issuer.
	GUID() string
	// NextDeckID returns 1, 2, 3, ... on successive calls.
	NextDeckID() int
}

// seededNamespace scopes name-based UUIDs to ttgen.
var seededNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/ttgen/ids"))

type issuer struct {
	mu   sync.Mutex
	next func() uuid.UUID
	seen map[string]struct{}
	deck int
}

// NewRandom creates an issuer backed by random UUIDs.
func NewRandom() Issuer {
	return &issuer{next: uuid.New, seen: make(map[string]struct{})}
}

// NewSeeded creates a reproducible issuer. Two issuers with the same seed
// return the same sequence.
func NewSeeded(seed string) Issuer {
	ns := uuid.NewSHA1(seededNamespace, []byte(seed))
	n := 0
	return &issuer{
		next: func() uuid.UUID {
			n++
			return uuid.NewSHA1(ns, []byte(strconv.Itoa(n)))
		},
		seen: make(map[string]struct{}),
	}
}

func (i *issuer) GUID() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	for {
		g := i.next().String()[:GUIDLength]
		if _, dup := i.seen[g]; !dup {
			i.seen[g] = struct{}{}
			return g
		}
	}
}

func (i *issuer) NextDeckID() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.deck++
	return i.deck
}
