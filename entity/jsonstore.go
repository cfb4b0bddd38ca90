package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// JSONStore persists entities as one JSON file per entity under
// <root>/<kind>/<id>.json. The file tree is the archive's source of truth
// for entity identity, so it stays plain JSON and human-auditable.
type JSONStore struct {
	root string
}

// NewJSONStore opens (or creates) a file-backed entity store rooted at dir.
func NewJSONStore(dir string) (*JSONStore, error) {
	for _, k := range Kinds {
		if err := os.MkdirAll(filepath.Join(dir, string(k)), 0o755); err != nil {
			return nil, fmt.Errorf("creating entity dir for %s: %w", k, err)
		}
	}
	return &JSONStore{root: dir}, nil
}

// List returns all entities of a kind sorted by identity so callers see a
// stable candidate order (the resolver's tie-break depends on it).
func (s *JSONStore) List(ctx context.Context, kind Kind) ([]CanonicalEntity, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	dir := filepath.Join(s.root, string(kind))
	names, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading entity dir: %w", err)
	}

	var entities []CanonicalEntity
	for _, de := range names {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := s.readFile(filepath.Join(dir, de.Name()))
		if err != nil {
			return nil, err
		}
		entities = append(entities, *e)
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].ID < entities[j].ID })
	return entities, nil
}

// Get returns a single entity by identity.
func (s *JSONStore) Get(ctx context.Context, kind Kind, id ID) (*CanonicalEntity, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	path := filepath.Join(s.root, string(kind), string(id)+".json")
	e, err := s.readFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, kind, id)
	}
	return e, err
}

// Save writes an entity atomically (temp file + rename) so concurrent
// readers never observe a partial write.
func (s *JSONStore) Save(ctx context.Context, e CanonicalEntity) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, e.Kind)
	}
	if e.ID == "" {
		return fmt.Errorf("entity: empty identity for %q", e.Name)
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding entity: %w", err)
	}

	dir := filepath.Join(s.root, string(e.Kind))
	tmp, err := os.CreateTemp(dir, ".entity-*")
	if err != nil {
		return fmt.Errorf("creating temp entity file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing entity: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	final := filepath.Join(dir, string(e.ID)+".json")
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming entity file: %w", err)
	}
	return nil
}

// Count returns the number of entities of a kind without decoding them.
func (s *JSONStore) Count(ctx context.Context, kind Kind) (int, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	names, err := os.ReadDir(filepath.Join(s.root, string(kind)))
	if err != nil {
		return 0, fmt.Errorf("reading entity dir: %w", err)
	}
	n := 0
	for _, de := range names {
		if !de.IsDir() && strings.HasSuffix(de.Name(), ".json") {
			n++
		}
	}
	return n, nil
}

func (s *JSONStore) readFile(path string) (*CanonicalEntity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var e CanonicalEntity
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return &e, nil
}
