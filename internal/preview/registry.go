// Package preview manages short-lived preview handles for attached media.
// A handle is acquired when a file is attached and must be released when the
// attachment is replaced, cleared or discarded.
package preview

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a handle was never issued or was already released.
var ErrNotFound = errors.New("preview not found")

// Handle identifies a live preview.
type Handle struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// IsZero reports whether h is the empty handle.
func (h Handle) IsZero() bool {
	return h.ID == ""
}

// Object is the payload behind a handle.
type Object struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Registry tracks live previews. It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	baseURL string
	objects map[string]Object
}

// NewRegistry creates a registry whose handle URLs start with baseURL.
func NewRegistry(baseURL string) *Registry {
	return &Registry{
		baseURL: baseURL,
		objects: make(map[string]Object),
	}
}

// Acquire stores the payload and returns a new handle for it.
func (r *Registry) Acquire(name, mimeType string, data []byte) Handle {
	id := uuid.New().String()

	r.mu.Lock()
	r.objects[id] = Object{Name: name, MIMEType: mimeType, Data: data}
	r.mu.Unlock()

	return Handle{ID: id, URL: r.baseURL + "/" + id}
}

// Release drops the payload behind id. Releasing an unknown id is a no-op and
// reports false.
func (r *Registry) Release(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.objects[id]; !ok {
		return false
	}
	delete(r.objects, id)
	return true
}

// Open returns the payload behind id.
func (r *Registry) Open(id string) (Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[id]
	if !ok {
		return Object{}, ErrNotFound
	}
	return obj, nil
}

// Live returns the number of unreleased handles.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.objects)
}
