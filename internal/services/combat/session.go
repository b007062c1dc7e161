package combat

import (
	cryptorand "crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	engineErrors "github.com/mudforge/mudcore/internal/errors"
)

var (
	logEntropy     = ulid.Monotonic(cryptorand.Reader, 0)
	logEntropyLock sync.Mutex
)

// newLogID generates a time-sortable ID for an action log entry.
func newLogID(at time.Time) string {
	logEntropyLock.Lock()
	defer logEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), logEntropy).String()
}

// Participant is one combatant within a session.
type Participant struct {
	CharacterID string    `json:"character_id"`
	JoinedAt    time.Time `json:"joined_at"`
}

// LogEntry is one resolved action in a session's audit trail. Entries
// are immutable once written.
type LogEntry struct {
	ID          string    `json:"id"`
	At          time.Time `json:"at"`
	ActorID     string    `json:"actor_id"`
	TargetID    string    `json:"target_id"`
	Description string    `json:"description"`
	Hit         bool      `json:"hit"`
	Damage      int       `json:"damage"` // negative for healing
}

// Session is an ephemeral record scoping one fight.
type Session struct {
	ID           string                  `json:"id"`
	Participants map[string]*Participant `json:"participants"`
	StartedAt    time.Time               `json:"started_at"`
	EndedAt      *time.Time              `json:"ended_at,omitempty"`

	mu  sync.Mutex
	log []*LogEntry
}

// Active reports whether the session is still open.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.EndedAt == nil
}

// Log returns a copy of the append-only action log.
func (s *Session) Log() []*LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*LogEntry(nil), s.log...)
}

func (s *Session) appendEntry(entry *LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, entry)
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*Session)}
}

// StartSession implements Service.StartSession
func (s *service) StartSession(participantIDs ...string) (*Session, error) {
	if len(participantIDs) == 0 {
		return nil, engineErrors.InvalidArgument("a session needs at least one participant")
	}

	now := s.clock()
	session := &Session{
		ID:           newLogID(now),
		Participants: make(map[string]*Participant, len(participantIDs)),
		StartedAt:    now,
	}
	for _, id := range participantIDs {
		if _, err := s.entities.Get(id); err != nil {
			return nil, engineErrors.Wrapf(err, "participant %s is not live", id)
		}
		session.Participants[id] = &Participant{CharacterID: id, JoinedAt: now}
	}

	s.sessions.mu.Lock()
	defer s.sessions.mu.Unlock()
	s.sessions.sessions[session.ID] = session
	return session, nil
}

// EndSession implements Service.EndSession
func (s *service) EndSession(sessionID string) error {
	session, err := s.Session(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.EndedAt == nil {
		now := s.clock()
		session.EndedAt = &now
	}
	return nil
}

// Session implements Service.Session
func (s *service) Session(sessionID string) (*Session, error) {
	s.sessions.mu.RLock()
	defer s.sessions.mu.RUnlock()

	session, ok := s.sessions.sessions[sessionID]
	if !ok {
		return nil, engineErrors.NotFoundf("combat session %s not found", sessionID)
	}
	return session, nil
}

// logAction appends an audit entry when the action is scoped to a
// session. Returns the entry ID, or empty when unscoped.
func (s *service) logAction(sessionID string, at time.Time, actorID, targetID, description string, hit bool, damage int) string {
	if sessionID == "" {
		return ""
	}
	session, err := s.Session(sessionID)
	if err != nil {
		return ""
	}

	entry := &LogEntry{
		ID:          newLogID(at),
		At:          at,
		ActorID:     actorID,
		TargetID:    targetID,
		Description: description,
		Hit:         hit,
		Damage:      damage,
	}
	session.appendEntry(entry)
	return entry.ID
}
