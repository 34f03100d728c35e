package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.ogmo *.json
var LevelsFS embed.FS

// ParseProject decodes and validates a project document.
func ParseProject(data []byte) (*Project, error) {
	var raw RawProject
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal project: %w", err)
	}
	return NewProject(raw)
}

// LoadProject loads a project from a file on disk.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	p, err := ParseProject(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadProjectFromFS loads a project from an fs.FS (e.g. LevelsFS).
func LoadProjectFromFS(fsys fs.FS, name string) (*Project, error) {
	data, err := fs.ReadFile(fsys, cleanLevelPath(name))
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	p, err := ParseProject(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}

// UseLevel decodes a level document and resolves it against p.
func (p *Project) UseLevel(data []byte) (*Level, error) {
	var raw RawLevel
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	return p.NewLevel(raw)
}

// LoadLevel loads a level file from disk against p.
func (p *Project) LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	lvl, err := p.UseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lvl, nil
}

// LoadLevelFromFS loads a level from an fs.FS against p.
func (p *Project) LoadLevelFromFS(fsys fs.FS, name string) (*Level, error) {
	data, err := fs.ReadFile(fsys, cleanLevelPath(name))
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	lvl, err := p.UseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return lvl, nil
}

func cleanLevelPath(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(path), "levels/")
}
