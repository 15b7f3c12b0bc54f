package semantic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/Pushkarm029/postgres-proxy-server/internal/apperr"
)

// Store is the capability set spec.md §9 calls for: "a small set over
// {get_model, list}", implemented as its own concrete type per backing
// store rather than boxed behind a generic — the store reference is
// established once at construction (§5) and never changes, so there is
// no hot-path cost to a plain interface here. ctx is only ever suspended
// on by RemoteStore (§5: "HTTP/object-store fetches ... are suspension
// points"); LocalStore ignores it.
type Store interface {
	GetModel(ctx context.Context, name string) (*SemanticModel, error)
	ListModels(ctx context.Context) []string
	GetMeasure(ctx context.Context, table, measure string) (*Measure, error)
	Digest(ctx context.Context) string
}

// digestOf computes a content digest over a set of models: a hash of the
// sorted model names and, within each, the sorted dimension/measure
// names. Exposed for diagnostics and to detect when a remote store's
// listing changes between fetches (SPEC_FULL §3).
func digestOf(models map[string]*SemanticModel) string {
	names := make([]string, 0, len(models))
	for n := range models {
		names = append(names, n)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, n := range names {
		m := models[n]
		h.Write([]byte(n))
		h.Write([]byte{0})

		dims := make([]string, len(m.Dimensions))
		for i, d := range m.Dimensions {
			dims[i] = d.Name
		}
		sort.Strings(dims)
		for _, d := range dims {
			h.Write([]byte(d))
		}
		h.Write([]byte{0})

		meas := make([]string, len(m.Measures))
		for i, ms := range m.Measures {
			meas[i] = ms.Name
		}
		sort.Strings(meas)
		for _, ms := range meas {
			h.Write([]byte(ms))
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// staticStore is the shared lookup implementation for any Store whose
// full model set is known up front (LocalStore's mock/JSON-loaded
// catalog; RemoteStore's per-fetch memoized set).
type staticStore struct {
	models map[string]*SemanticModel
	names  []string
	digest string
}

func newStaticStore(models map[string]*SemanticModel) *staticStore {
	names := make([]string, 0, len(models))
	for n := range models {
		names = append(names, n)
	}
	sort.Strings(names)
	return &staticStore{models: models, names: names, digest: digestOf(models)}
}

func (s *staticStore) getModel(name string) (*SemanticModel, error) {
	m, ok := s.models[name]
	if !ok {
		return nil, apperr.ModelNotFound(name)
	}
	return m, nil
}

func (s *staticStore) listModels() []string {
	return s.names
}

func (s *staticStore) getMeasure(table, measure string) (*Measure, error) {
	m, err := s.getModel(table)
	if err != nil {
		return nil, err
	}
	return m.GetMeasure(measure)
}
