package levels

import (
	"errors"
	"testing"

	"github.com/milk9111/ogmo/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRawProject() RawProject {
	return RawProject{
		Name: "test",
		Tilesets: []RawTileset{
			{Label: "terrain", Path: "terrain.png", TileWidth: 16, TileHeight: 8, TileSeparationX: 1, TileSeparationY: 2},
			{Label: "cave", Path: "cave.png", TileWidth: 32, TileHeight: 32},
		},
		Layers: []RawLayerDefinition{
			{Definition: "tile", Name: "tiles", GridSize: common.Point{X: 16, Y: 8}, ExportID: "t1", DefaultTileset: "terrain"},
			{Definition: "grid", Name: "solids", GridSize: common.Point{X: 16, Y: 16}, ExportID: "g1", Legend: map[string]string{"0": "empty", "1": "solid"}},
			{Definition: "entity", Name: "actors", GridSize: common.Point{X: 16, Y: 16}, ExportID: "e1", RequiredTags: []string{"enemy"}},
			{Definition: "decal", Name: "props", GridSize: common.Point{X: 16, Y: 16}, ExportID: "d1", Folder: "decals", Scaleable: true, Rotatable: true},
		},
	}
}

func TestNewProject(t *testing.T) {
	p, err := NewProject(testRawProject())
	require.NoError(t, err)

	require.Len(t, p.Tilesets, 2)
	terrain := p.Tilesets[0]
	assert.Equal(t, "terrain", terrain.Label)
	assert.Equal(t, common.Point{X: 16, Y: 8}, terrain.TileSize)
	assert.Equal(t, common.Point{X: 1, Y: 2}, terrain.TileSeparation)

	require.Len(t, p.Layers, 4)
	kinds := []LayerKind{KindTile, KindGrid, KindEntity, KindDecal}
	for i, def := range p.Layers {
		assert.Equal(t, kinds[i], def.Kind(), "layer %d", i)
	}

	tile, ok := p.Layers[0].(*TileLayerDefinition)
	require.True(t, ok)
	assert.Same(t, terrain, tile.DefaultTileset)
	assert.Equal(t, common.Point{X: 16, Y: 8}, tile.GridSize)

	gridDef, ok := p.Layers[1].(*GridLayerDefinition)
	require.True(t, ok)
	label, ok := gridDef.Label("1")
	assert.True(t, ok)
	assert.Equal(t, "solid", label)

	entDef := p.Layers[2].(*EntityLayerDefinition)
	assert.Equal(t, []string{"enemy"}, entDef.RequiredTags)

	decalDef := p.Layers[3].(*DecalLayerDefinition)
	assert.True(t, decalDef.Scaleable)
	assert.True(t, decalDef.Rotatable)
	assert.Equal(t, "decals", decalDef.Folder)

	byID, ok := p.Layer("g1")
	require.True(t, ok)
	assert.Same(t, p.Layers[1], byID)

	cave, ok := p.Tileset("cave")
	require.True(t, ok)
	assert.Equal(t, "cave.png", cave.Path)
}

func TestNewProjectErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(raw *RawProject)
		is     error
	}{
		{
			name:   "missing_tileset",
			mutate: func(raw *RawProject) { raw.Layers[0].DefaultTileset = "nope" },
			is:     ErrUnresolvedTileset,
		},
		{
			name:   "unknown_kind",
			mutate: func(raw *RawProject) { raw.Layers[1].Definition = "polygon" },
			is:     ErrUnknownLayerKind,
		},
		{
			name:   "duplicate_tileset",
			mutate: func(raw *RawProject) { raw.Tilesets[1].Label = "terrain" },
			is:     ErrDuplicateTileset,
		},
		{
			name:   "duplicate_export_id",
			mutate: func(raw *RawProject) { raw.Layers[3].ExportID = "e1" },
			is:     ErrDuplicateExportID,
		},
		{
			name:   "duplicate_layer_name",
			mutate: func(raw *RawProject) { raw.Layers[1].Name = "tiles" },
			is:     ErrDuplicateLayerName,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw := testRawProject()
			c.mutate(&raw)
			p, err := NewProject(raw)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, c.is), "got %v", err)
		})
	}
}

func TestUnresolvedTilesetNamesLabel(t *testing.T) {
	raw := testRawProject()
	raw.Layers = append(raw.Layers, RawLayerDefinition{Definition: "tile", Name: "fg", ExportID: "t2", DefaultTileset: "missing"})

	_, err := NewProject(raw)
	var unresolved *UnresolvedTilesetError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, 4, unresolved.Layer)
	assert.Equal(t, "missing", unresolved.Label)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestParseLayerKind(t *testing.T) {
	for _, k := range []LayerKind{KindTile, KindGrid, KindEntity, KindDecal} {
		got, err := ParseLayerKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseLayerKind("Tile")
	assert.ErrorIs(t, err, ErrUnknownLayerKind)
	assert.Equal(t, "unknown", LayerKind(42).String())
}

func TestParseProjectSample(t *testing.T) {
	p, err := LoadProjectFromFS(LevelsFS, "levels/sample.ogmo")
	require.NoError(t, err)

	assert.Equal(t, "sample", p.Name)
	require.Len(t, p.LevelValues, 1)
	assert.Equal(t, "music", p.LevelValues[0].Name())
	assert.Equal(t, "String", p.LevelValues[0].Definition())

	cave, ok := p.Tileset("cave")
	require.True(t, ok)
	assert.Equal(t, common.Point{X: 1, Y: 1}, cave.TileMargin)

	_, err = ParseProject([]byte("{not json"))
	assert.Error(t, err)
}
