package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const maxBodyBytes = 1 << 20

// Validator holds the compiled request schemas keyed by file name without
// extension, e.g. "register".
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	v := &Validator{cache: make(map[string]*jsonschema.Schema)}
	if err := v.Load(schemaFS); err != nil {
		return nil, err
	}
	return v, nil
}

// Load compiles every schemas/*.json file in fsys and replaces the cache.
func (v *Validator) Load(fsys fs.FS) error {
	names, err := fs.Glob(fsys, "schemas/*.json")
	if err != nil {
		return fmt.Errorf("list schemas: %w", err)
	}

	newCache := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read schema %s: %w", name, err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(raw, rs); err != nil {
			return fmt.Errorf("compile schema %s: %w", name, err)
		}
		newCache[strings.TrimSuffix(path.Base(name), ".json")] = rs
	}

	v.mu.Lock()
	v.cache = newCache
	v.mu.Unlock()
	return nil
}

func (v *Validator) schema(name string) (*jsonschema.Schema, bool) {
	v.mu.RLock()
	s, ok := v.cache[name]
	v.mu.RUnlock()
	return s, ok
}

// Check validates raw JSON against the named schema.
func (v *Validator) Check(ctx context.Context, name string, raw []byte) error {
	s, ok := v.schema(name)
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	verrs, err := s.ValidateBytes(ctx, raw)
	if err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.PropertyPath, e.Message))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// decode reads the request body, validates it against the named schema and
// unmarshals it into dst. It writes a 400 response and returns false on failure.
func (v *Validator) decode(w http.ResponseWriter, r *http.Request, name string, dst any) bool {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		badRequest(w, "invalid request body")
		return false
	}
	if err := v.Check(r.Context(), name, raw); err != nil {
		badRequest(w, err.Error())
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		badRequest(w, fmt.Sprintf("invalid request: %v", err))
		return false
	}
	return true
}
