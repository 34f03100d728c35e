package main

import (
	"testing"

	"github.com/milk9111/ogmo/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempSessionStore(t *testing.T) *sessionStore {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	store, err := openSessionStore("ogmo_viewer_test")
	require.NoError(t, err)
	return store
}

func TestSessionRoundTrip(t *testing.T) {
	store := tempSessionStore(t)

	_, ok, err := store.load()
	require.NoError(t, err)
	assert.False(t, ok, "nothing saved yet")

	cfg := viewerConfig{project: "p.ogmo", level: "one.json"}
	cam := component.Camera{X: 1, Y: 2, TargetX: 40, TargetY: 24, Zoom: 3}
	require.NoError(t, store.save(newSession(cfg, cam, true)))

	sess, ok, err := store.load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, sess.Debug)

	var restored component.Camera
	require.True(t, sess.restore(cfg, &restored))
	assert.Equal(t, 40.0, restored.X)
	assert.Equal(t, 24.0, restored.TargetY)
	assert.Equal(t, 3.0, restored.Zoom)
}

func TestSessionRestoreOtherLevel(t *testing.T) {
	sess := session{Level: "one.json", X: 5, Zoom: 2}
	cam := component.Camera{Zoom: 1}

	assert.False(t, sess.restore(viewerConfig{level: "two.json"}, &cam))
	assert.Equal(t, component.Camera{Zoom: 1}, cam)
}

func TestNilSessionStore(t *testing.T) {
	var store *sessionStore
	_, ok, err := store.load()
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, store.save(session{}))
	assert.NoError(t, (&sessionStore{}).save(session{}))
}
