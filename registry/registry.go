// Package registry indexes the standard interface compositions by id and
// tracks developer certificates over them.
//
// Interfaces loaded from a library are untrusted: Load parses the bytes,
// re-derives the feature selection and only accepts the result if a fresh
// composition of that selection has the same id.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/keys"
	"lnp-bp.org/rgbiface/rgb20"
	"lnp-bp.org/rgbiface/rgb25"
	"lnp-bp.org/rgbiface/storage"
)

var logger = log.WithFields(log.Fields{"prefix": "registry"})

var ErrUnknownInterface = errors.New("registry: unknown interface")

// Entry is one registered composition.
type Entry struct {
	ID       iface.IfaceId
	Family   iface.AssetFamily
	Name     string
	Features iface.FeatureSet
	Iface    iface.Iface
}

type Registry struct {
	mu      sync.RWMutex
	entries map[iface.IfaceId]Entry
	certs   map[iface.IfaceId][]keys.Certificate
	trusted map[string][]string
}

func New() *Registry {
	return &Registry{
		entries: make(map[iface.IfaceId]Entry),
		certs:   make(map[iface.IfaceId][]keys.Certificate),
		trusted: make(map[string][]string),
	}
}

// Standard returns a registry holding every RGB20 and RGB25 composition.
func Standard() *Registry {
	r := New()
	for _, c := range Classes() {
		r.RegisterClass(c)
	}
	return r
}

// Classes lists the standard interface classes.
func Classes() []iface.Class {
	return []iface.Class{rgb20.Class(), rgb25.Class()}
}

func (r *Registry) RegisterClass(c iface.Class) {
	for _, f := range c.Features {
		r.Register(f)
	}
}

// Register composes f and indexes the result. Registering the same
// selection twice is a no-op.
func (r *Registry) Register(f iface.FeatureSet) Entry {
	i := f.Iface()
	e := Entry{ID: i.ID(), Family: f.Family(), Name: i.Name, Features: f, Iface: i}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.ID]; !ok {
		r.entries[e.ID] = e
		logger.WithFields(log.Fields{"iface": e.Name, "id": e.ID}).Debug("registered interface")
	}
	return e
}

func (r *Registry) Lookup(id iface.IfaceId) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// Entries returns every entry ordered by family, then composition order
// within the class, then id.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	r.mu.RUnlock()

	order := make(map[iface.IfaceId]int)
	for _, c := range Classes() {
		for n, id := range c.IDs() {
			order[id] = n
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Family != b.Family {
			return a.Family < b.Family
		}
		if oa, ob := order[a.ID], order[b.ID]; oa != ob {
			return oa < ob
		}
		return a.ID.Compare(b.ID) < 0
	})
	return out
}

// Classify re-derives the feature selection of an observed interface. It
// fails unless a fresh composition of that selection has the same id.
func Classify(i iface.Iface) (Entry, error) {
	id, err := i.CanonicalID()
	if err != nil {
		return Entry{}, err
	}
	if f, err := rgb20.ExtractFeatures(i); err == nil && rgb20.IfaceID(f) == id {
		return Entry{ID: id, Family: f.Family(), Name: i.Name, Features: f, Iface: i}, nil
	}
	if f, err := rgb25.ExtractFeatures(i); err == nil && rgb25.IfaceID(f) == id {
		return Entry{ID: id, Family: f.Family(), Name: i.Name, Features: f, Iface: i}, nil
	}
	return Entry{}, iface.NewError(iface.KindSchema, "REGISTRY-CLASSIFY-001",
		fmt.Sprintf("interface %s (%s) is not a standard RGB20 or RGB25 composition", i.Name, id))
}

// Publish stores the canonical bytes of every entry in lib.
func (r *Registry) Publish(lib storage.Library) ([]iface.IfaceId, error) {
	var out []iface.IfaceId
	for _, e := range r.Entries() {
		b, err := iface.Render(e.Iface)
		if err != nil {
			return out, fmt.Errorf("render %s: %w", e.Name, err)
		}
		id, err := lib.Put(b)
		if err != nil {
			return out, fmt.Errorf("publish %s: %w", e.Name, err)
		}
		if id != e.ID {
			return out, fmt.Errorf("publish %s: %w", e.Name, storage.ErrIDMismatch)
		}
		out = append(out, id)
	}
	logger.WithField("count", len(out)).Info("published interfaces")
	return out, nil
}

// Load fetches id from lib, parses it and classifies it. Loaded entries are
// registered.
func (r *Registry) Load(lib storage.Library, id iface.IfaceId) (Entry, error) {
	b, err := lib.Get(id)
	if err != nil {
		return Entry{}, err
	}
	i, err := iface.Parse(b)
	if err != nil {
		return Entry{}, err
	}
	if i.ID() != id {
		return Entry{}, storage.ErrIDMismatch
	}
	e, err := Classify(i)
	if err != nil {
		logger.WithField("id", id).Warnf("rejected library interface: %v", err)
		return Entry{}, err
	}
	r.mu.Lock()
	r.entries[e.ID] = e
	r.mu.Unlock()
	return e, nil
}

// Trust pins key as an accepted signing key for developer. Once a developer
// has pinned keys, certificates under other keys are rejected.
func (r *Registry) Trust(developer, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.trusted[developer], key) {
		r.trusted[developer] = append(r.trusted[developer], key)
	}
}

// Certify verifies c and attaches it to its interface.
func (r *Registry) Certify(c keys.Certificate) error {
	if err := c.Verify(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[c.Iface]
	if !ok {
		return fmt.Errorf("certify %s: %w", c.Iface, ErrUnknownInterface)
	}
	if e.Iface.Developer != c.Developer {
		return iface.NewError(iface.KindCrypto, "REGISTRY-CERT-001",
			fmt.Sprintf("certificate developer %q does not match interface developer %q", c.Developer, e.Iface.Developer))
	}
	if pinned := r.trusted[c.Developer]; len(pinned) > 0 && !slices.Contains(pinned, c.Key) {
		return iface.NewError(iface.KindCrypto, "REGISTRY-CERT-002",
			fmt.Sprintf("key is not trusted for developer %q", c.Developer))
	}
	if slices.Contains(r.certs[c.Iface], c) {
		return nil
	}
	r.certs[c.Iface] = append(r.certs[c.Iface], c)
	logger.WithFields(log.Fields{"iface": e.Name, "developer": c.Developer}).Info("certified interface")
	return nil
}

func (r *Registry) Certificates(id iface.IfaceId) []keys.Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.certs[id])
}

// Verify reports whether id carries a certificate from its developer under
// a trusted key. Without pinned keys any valid certificate counts.
func (r *Registry) Verify(id iface.IfaceId) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return false, fmt.Errorf("verify %s: %w", id, ErrUnknownInterface)
	}
	pinned := r.trusted[e.Iface.Developer]
	for _, c := range r.certs[id] {
		if c.Developer != e.Iface.Developer {
			continue
		}
		if len(pinned) == 0 || slices.Contains(pinned, c.Key) {
			return true, nil
		}
	}
	return false, nil
}
