// Package bundle moves interface libraries around as deterministic TAR
// archives: one entry per canonical interface text plus an optional
// index.json that labels entries with their interface names.
package bundle

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/storage"
)

// FormatVersion is the current bundle index schema version.
const FormatVersion = 1

const (
	ifaceDir  = "ifaces/"
	indexName = "index.json"
)

var epoch0 = time.Unix(0, 0).UTC()

// ExportOptions controls bundle export.
type ExportOptions struct {
	// Labels is optional, non-authoritative metadata mapping names to ids.
	Labels map[string]iface.IfaceId
	// IncludeIndex controls whether index.json is written.
	IncludeIndex bool
}

// Export writes the interfaces named by ids as a TAR bundle.
//
// The output is deterministic: entries are sorted by id text and headers
// are normalized. Every exported object is checked against its id.
func Export(w io.Writer, lib storage.Library, ids []iface.IfaceId, opts ExportOptions) error {
	if lib == nil {
		return fmt.Errorf("bundle: nil library")
	}

	uniq := make(map[string]iface.IfaceId, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			return storage.ErrInvalidID
		}
		uniq[id.String()] = id
	}
	names := make([]string, 0, len(uniq))
	for s := range uniq {
		names = append(names, s)
	}
	sort.Strings(names)

	tw := tar.NewWriter(w)
	fail := func(err error) error {
		_ = tw.Close()
		return err
	}

	entries := make([]indexEntry, 0, len(names))
	for _, s := range names {
		id := uniq[s]
		b, err := lib.Get(id)
		if err != nil {
			return fail(fmt.Errorf("bundle: %s: %w", s, err))
		}
		if err := storage.Verify(id, b); err != nil {
			return fail(err)
		}
		if err := writeFile(tw, ifaceDir+s, b); err != nil {
			return fail(err)
		}
		entries = append(entries, indexEntry{ID: s, Size: len(b)})
	}

	if opts.IncludeIndex {
		idx := index{Version: FormatVersion, Format: "rgb-iface-1", Digest: "sha2-256", Entries: entries}
		keys := make([]string, 0, len(opts.Labels))
		for k := range opts.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if k == "" {
				return fail(fmt.Errorf("bundle: empty label key"))
			}
			v := opts.Labels[k]
			if v.IsZero() {
				return fail(storage.ErrInvalidID)
			}
			idx.Labels = append(idx.Labels, indexLabel{Name: k, ID: v.String()})
		}
		b, err := json.Marshal(idx)
		if err != nil {
			return fail(err)
		}
		if err := writeFile(tw, indexName, append(b, '\n')); err != nil {
			return fail(err)
		}
	}
	return tw.Close()
}

// ImportOptions controls bundle import.
type ImportOptions struct {
	// IgnoreUnknown skips unknown entries instead of failing.
	IgnoreUnknown bool
}

// Result lists what an import stored.
type Result struct {
	IDs    []iface.IfaceId          `json:"ids" yaml:"ids"`
	Labels map[string]iface.IfaceId `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Import reads a bundle into lib, failing on unknown entries.
func Import(r io.Reader, lib storage.Library) (Result, error) {
	return ImportWithOptions(r, lib, ImportOptions{})
}

// ImportWithOptions reads a bundle into lib. Each entry must be a canonical
// interface text whose id matches its entry name.
func ImportWithOptions(r io.Reader, lib storage.Library, opts ImportOptions) (Result, error) {
	var res Result
	if lib == nil {
		return res, fmt.Errorf("bundle: nil library")
	}

	tr := tar.NewReader(r)
	seen := map[iface.IfaceId]struct{}{}
	for {
		h, err := tr.Next()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return res, err
		}
		name := cleanTarPath(h.Name)
		if name == "" {
			return res, fmt.Errorf("bundle: invalid entry path: %q", h.Name)
		}
		if h.Typeflag != tar.TypeReg {
			if opts.IgnoreUnknown {
				continue
			}
			return res, fmt.Errorf("bundle: unexpected tar entry type: %v (%s)", h.Typeflag, name)
		}

		if name == indexName {
			var idx index
			if err := json.NewDecoder(tr).Decode(&idx); err != nil {
				return res, fmt.Errorf("bundle: index: %w", err)
			}
			if res.Labels, err = idx.labels(); err != nil {
				return res, err
			}
			continue
		}
		if !strings.HasPrefix(name, ifaceDir) {
			if opts.IgnoreUnknown {
				continue
			}
			return res, fmt.Errorf("bundle: unknown entry: %s", name)
		}

		id, err := iface.ParseIfaceId(strings.TrimPrefix(name, ifaceDir))
		if err != nil || id.IsZero() {
			return res, storage.ErrInvalidID
		}
		payload, err := io.ReadAll(tr)
		if err != nil {
			return res, err
		}
		if err := storage.Verify(id, payload); err != nil {
			return res, err
		}
		if _, err := iface.Parse(payload); err != nil {
			return res, fmt.Errorf("bundle: %s: %w", name, err)
		}
		if _, dup := seen[id]; dup {
			return res, fmt.Errorf("bundle: duplicate entry: %s", name)
		}
		seen[id] = struct{}{}

		putID, err := lib.Put(payload)
		if err != nil {
			return res, err
		}
		if putID != id {
			return res, storage.ErrIDMismatch
		}
		res.IDs = append(res.IDs, id)
	}
}

type index struct {
	Version int          `json:"version"`
	Format  string       `json:"format"`
	Digest  string       `json:"digest"`
	Entries []indexEntry `json:"entries"`
	Labels  []indexLabel `json:"labels,omitempty"`
}

type indexEntry struct {
	ID   string `json:"id"`
	Size int    `json:"size"`
}

type indexLabel struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

func (idx index) labels() (map[string]iface.IfaceId, error) {
	if idx.Version != FormatVersion {
		return nil, fmt.Errorf("bundle: unsupported index version %d", idx.Version)
	}
	if len(idx.Labels) == 0 {
		return nil, nil
	}
	out := make(map[string]iface.IfaceId, len(idx.Labels))
	for _, l := range idx.Labels {
		id, err := iface.ParseIfaceId(l.ID)
		if err != nil {
			return nil, fmt.Errorf("bundle: label %q: %w", l.Name, err)
		}
		out[l.Name] = id
	}
	return out, nil
}

func writeFile(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  epoch0,
		Typeflag: tar.TypeReg,
		Format:   tar.FormatUSTAR,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := io.Copy(tw, bytes.NewReader(content))
	return err
}

func cleanTarPath(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return ""
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return ""
		}
	}
	return name
}
