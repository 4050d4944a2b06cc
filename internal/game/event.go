package game

import "github.com/tomz197/bugstroids/internal/object"

// EventType identifies what changed in a session.
type EventType int

const (
	EventScore        EventType = iota // Asteroid destroyed, Points awarded
	EventLifeLost                      // Ship hit an asteroid
	EventLevelUp                       // Field cleared, Level reached
	EventGameOver                      // Lives exhausted
	EventPhaseChanged                  // Phase entered
)

// Event is a notification for the driver's UI (HUD refresh, overlays, logging).
type Event struct {
	Type   EventType
	Points int
	Size   object.AsteroidSize
	Level  int
	Lives  int
	Score  int
	Phase  Phase
}

func (s *Session) emit(e Event) {
	e.Score = s.Score
	e.Lives = s.Lives
	e.Level = s.Level
	s.events = append(s.events, e)
}

// DrainEvents returns and clears the events raised since the last call.
func (s *Session) DrainEvents() []Event {
	events := s.events
	s.events = nil
	return events
}
