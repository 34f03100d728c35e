package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/ogmo/ecs/entity"
	"github.com/milk9111/ogmo/levels"
	"github.com/milk9111/ogmo/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckEmbeddedSample(t *testing.T) {
	c, err := newChecker(config{textures: true}, logger.Discard())
	require.NoError(t, err)

	reports, err := c.run(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, "sample_level.json", r.Level)
	assert.Equal(t, 4, r.Layers)
	assert.Equal(t, 2, r.Entities)
	assert.Equal(t, 2, r.Decals)
	assert.Zero(t, r.MissingTiles)
	assert.Equal(t, 2, r.Solids)
	assert.Equal(t, 1, r.Hazards)
}

func writeSample(t *testing.T, levelJSON []byte) (string, string) {
	t.Helper()
	dir := t.TempDir()
	project, err := levels.LevelsFS.ReadFile("sample.ogmo")
	require.NoError(t, err)
	projectPath := filepath.Join(dir, "sample.ogmo")
	levelPath := filepath.Join(dir, "one.json")
	require.NoError(t, os.WriteFile(projectPath, project, 0644))
	require.NoError(t, os.WriteFile(levelPath, levelJSON, 0644))
	return projectPath, levelPath
}

func TestCheckStrictUnknownEntity(t *testing.T) {
	level := []byte(`{"width": 16, "height": 16, "layers": [
		{"_eid": "61799103", "entities": [{"name": "dragon", "id": 0, "x": 1, "y": 2}]}
	]}`)
	projectPath, levelPath := writeSample(t, level)

	lenient, err := newChecker(config{project: projectPath, levels: []string{levelPath}}, logger.Discard())
	require.NoError(t, err)
	reports, err := lenient.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reports[0].Entities)

	strict, err := newChecker(config{project: projectPath, levels: []string{levelPath}, strict: true}, logger.Discard())
	require.NoError(t, err)
	_, err = strict.run(context.Background())
	var unresolved *entity.UnresolvedEntityFactoryError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "dragon", unresolved.Name)
}

func TestCheckBrokenLevel(t *testing.T) {
	projectPath, levelPath := writeSample(t, []byte(`{"layers": [{"_eid": "nope"}]}`))
	c, err := newChecker(config{project: projectPath, levels: []string{levelPath}}, logger.Discard())
	require.NoError(t, err)

	reports, err := c.run(context.Background())
	assert.Empty(t, reports)
	assert.ErrorIs(t, err, levels.ErrUnresolvedLayer)
}
