package render

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Registry caches images by key. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	images map[string]*ebiten.Image
}

func NewRegistry() *Registry {
	return &Registry{images: make(map[string]*ebiten.Image)}
}

// Register stores an image by key.
func (r *Registry) Register(key string, img *ebiten.Image) {
	if r == nil || key == "" || img == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[key] = img
}

// Get returns a cached image by key.
func (r *Registry) Get(key string) *ebiten.Image {
	if r == nil || key == "" {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.images[key]
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.images)
}
