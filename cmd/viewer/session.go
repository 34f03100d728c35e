package main

import (
	"fmt"

	"github.com/milk9111/ogmo/ecs/component"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	sessionObject   = "viewer"
	sessionProperty = "session"
)

// session is the viewer state kept between runs.
type session struct {
	Project string  `yaml:"project"`
	Level   string  `yaml:"level"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Zoom    float64 `yaml:"zoom"`
	Debug   bool    `yaml:"debug"`
}

// sessionStore persists the session through gdata. A nil manager keeps
// nothing.
type sessionStore struct {
	m *gdata.Manager
}

func openSessionStore(appName string) (*sessionStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return &sessionStore{}, fmt.Errorf("open session store: %w", err)
	}
	return &sessionStore{m: m}, nil
}

func (s *sessionStore) load() (session, bool, error) {
	if s == nil || s.m == nil || !s.m.ObjectPropExists(sessionObject, sessionProperty) {
		return session{}, false, nil
	}
	data, err := s.m.LoadObjectProp(sessionObject, sessionProperty)
	if err != nil {
		return session{}, false, fmt.Errorf("load session: %w", err)
	}
	var sess session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return session{}, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, true, nil
}

func (s *sessionStore) save(sess session) error {
	if s == nil || s.m == nil {
		return nil
	}
	data, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.m.SaveObjectProp(sessionObject, sessionProperty, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// restore applies a saved session to cam when it was saved for the same
// level.
func (sess session) restore(cfg viewerConfig, cam *component.Camera) bool {
	if sess.Project != cfg.project || sess.Level != cfg.level {
		return false
	}
	cam.X, cam.Y = sess.X, sess.Y
	cam.TargetX, cam.TargetY = sess.X, sess.Y
	if sess.Zoom > 0 {
		cam.Zoom = sess.Zoom
	}
	return true
}

func newSession(cfg viewerConfig, cam component.Camera, debug bool) session {
	return session{
		Project: cfg.project,
		Level:   cfg.level,
		X:       cam.TargetX,
		Y:       cam.TargetY,
		Zoom:    cam.Zoom,
		Debug:   debug,
	}
}
