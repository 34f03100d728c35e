package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

var ErrEmptyPath = errors.New("render: empty image path")

// TextureLoader resolves an image path to a texture. Implementations must be
// safe to call from several goroutines.
type TextureLoader interface {
	LoadTexture(ctx context.Context, path string) (*ebiten.Image, error)
}

// AssetLoader loads images from an fs.FS first and then from disk
// directories, caching each by path.
type AssetLoader struct {
	fsys  fs.FS
	dirs  []string
	cache *Registry
}

// NewAssetLoader creates a loader. fsys may be nil.
func NewAssetLoader(fsys fs.FS, dirs ...string) *AssetLoader {
	return &AssetLoader{
		fsys:  fsys,
		dirs:  append([]string(nil), dirs...),
		cache: NewRegistry(),
	}
}

// LoadTexture loads an image and caches it by key.
func (l *AssetLoader) LoadTexture(ctx context.Context, key string) (*ebiten.Image, error) {
	if key == "" {
		return nil, ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img := l.cache.Get(key); img != nil {
		return img, nil
	}
	decoded, err := l.decode(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img := ebiten.NewImageFromImage(decoded)
	l.cache.Register(key, img)
	return img, nil
}

// Cached reports how many images are held in the cache.
func (l *AssetLoader) Cached() int {
	return l.cache.Len()
}

func (l *AssetLoader) decode(key string) (image.Image, error) {
	if l.fsys != nil {
		name := strings.TrimPrefix(path.Clean(filepath.ToSlash(key)), "/")
		if b, err := fs.ReadFile(l.fsys, name); err == nil {
			return decodeBytes(key, b)
		}
	}
	tried := []string{key}
	for _, dir := range l.dirs {
		tried = append(tried, filepath.Join(dir, key))
	}
	for _, p := range tried {
		if b, err := os.ReadFile(p); err == nil {
			return decodeBytes(key, b)
		}
	}
	return nil, fmt.Errorf("render: load image %s: %w", key, fs.ErrNotExist)
}

func decodeBytes(key string, b []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("render: decode image %s: %w", key, err)
	}
	return img, nil
}
