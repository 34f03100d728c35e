package system

import (
	"github.com/milk9111/ogmo/ecs"
	"github.com/sirupsen/logrus"
)

// EventLogSystem logs world events. Run it last so it sees every event
// pushed during the frame.
type EventLogSystem struct {
	log  logrus.FieldLogger
	seen int
}

func NewEventLogSystem(log logrus.FieldLogger) *EventLogSystem {
	return &EventLogSystem{log: log}
}

func (s *EventLogSystem) Update(w *ecs.World) {
	for _, evt := range w.Events().Drain() {
		s.seen++
		entry := s.log.WithField("event", evt.Type)
		if err, ok := evt.Data.(error); ok {
			entry.WithError(err).Warn("world event")
			continue
		}
		entry.WithField("data", evt.Data).Debug("world event")
	}
}

// Seen returns the number of events logged so far.
func (s *EventLogSystem) Seen() int {
	return s.seen
}
