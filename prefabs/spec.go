package prefabs

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// EntityBuildSpec describes the components a level entity receives when the
// placement's name matches the prefab name. Script names a tengo script that
// derives the entity's properties at spawn time.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Script     string         `yaml:"script"`
	Components map[string]any `yaml:"components"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return decodeSpec[T](filename, data)
}

// LoadSpecFS reads a spec from fsys instead of the prefabs directory.
func LoadSpecFS[T any](fsys fs.FS, filename string) (T, error) {
	var zero T
	data, err := fs.ReadFile(fsys, cleanPrefabPath(filename))
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return decodeSpec[T](filename, data)
}

func decodeSpec[T any](filename string, data []byte) (T, error) {
	var zero T
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

// LoadAll loads every prefab spec in the embedded set.
func LoadAll() ([]EntityBuildSpec, error) {
	names, err := fs.Glob(PrefabsFS, "*.yaml")
	if err != nil {
		return nil, err
	}
	specs := make([]EntityBuildSpec, 0, len(names))
	for _, name := range names {
		spec, err := LoadEntityBuildSpec(name)
		if err != nil {
			return nil, err
		}
		if spec.Name == "" {
			return nil, fmt.Errorf("prefabs: %s: missing name", name)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	ScaleX float64 `yaml:"scale_x"`
	ScaleY float64 `yaml:"scale_y"`
}

type SpriteComponentSpec struct {
	Image              string  `yaml:"image"`
	OriginX            float64 `yaml:"origin_x"`
	OriginY            float64 `yaml:"origin_y"`
	CenterOriginIfZero bool    `yaml:"center_origin_if_zero"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type ShapeComponentSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PropertiesComponentSpec holds default property values. Placement values
// from the level override them.
type PropertiesComponentSpec map[string]any
