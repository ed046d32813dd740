// Package session keeps per-conversation detectors in memory. All sessions
// share one intent.Engine; each has its own tracker.
package session

import (
	"sort"
	"sync"
	"time"

	apperrors "kisan-intent/internal/common/errors"
	"kisan-intent/internal/common/logger"
	"kisan-intent/internal/common/metrics"
	"kisan-intent/internal/intent"
	"kisan-intent/internal/models"

	"github.com/google/uuid"
)

type Config struct {
	// IdleTTL is how long a session may stay untouched before Sweep drops it.
	// Zero disables expiry.
	IdleTTL time.Duration
	// MaxSessions caps the number of live sessions. When full, Start evicts
	// the least recently active one. Zero means no cap.
	MaxSessions int
}

type entry struct {
	meta     models.Session
	detector *intent.Detector
}

// Manager is safe for concurrent use.
type Manager struct {
	engine *intent.Engine
	config Config
	logger logger.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewManager(engine *intent.Engine, config Config, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Manager{
		engine:   engine,
		config:   config,
		logger:   log.WithFields(map[string]interface{}{"component": "sessions"}),
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Start opens a new session and returns its snapshot.
func (m *Manager) Start(metadata map[string]interface{}) models.Session {
	now := m.now()

	m.mu.Lock()
	if m.config.MaxSessions > 0 && len(m.sessions) >= m.config.MaxSessions {
		m.evictOldestLocked()
	}
	e := &entry{
		meta: models.Session{
			ID:           uuid.NewString(),
			CreatedAt:    now,
			LastActivity: now,
			Metadata:     metadata,
		},
		detector: m.engine.NewDetector(),
	}
	m.sessions[e.meta.ID] = e
	snapshot := e.meta.Clone()
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.ConversationSessionsActive.Set(float64(n))
	m.logger.Debug("session started", map[string]interface{}{"sessionId": snapshot.ID})
	return snapshot
}

// Detect runs text through the session's detector. The returned session
// snapshot already counts this turn.
func (m *Manager) Detect(id, text string) (intent.DetectionResult, models.Session, error) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return intent.DetectionResult{}, models.Session{}, apperrors.NewSessionNotFoundError(id)
	}
	e.meta.UpdateActivity(m.now())
	snapshot := e.meta.Clone()
	m.mu.Unlock()

	// The detector serializes its own tracker, so the map lock is not held here.
	result := e.detector.Detect(text)
	return result, snapshot, nil
}

// Summary returns the conversation statistics of a live session.
func (m *Manager) Summary(id string) (intent.Summary, error) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return intent.Summary{}, apperrors.NewSessionNotFoundError(id)
	}
	return e.detector.Summary(), nil
}

// Get returns a snapshot of the session metadata.
func (m *Manager) Get(id string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return models.Session{}, apperrors.NewSessionNotFoundError(id)
	}
	return e.meta.Clone(), nil
}

// End removes the session and returns its final summary.
func (m *Manager) End(id string) (intent.Summary, error) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return intent.Summary{}, apperrors.NewSessionNotFoundError(id)
	}
	metrics.ConversationSessionsActive.Set(float64(n))
	m.logger.Debug("session ended", map[string]interface{}{
		"sessionId": id,
		"turns":     e.meta.Turns,
	})
	return e.detector.Summary(), nil
}

// Sweep drops every session idle for longer than the configured TTL and
// returns how many were removed.
func (m *Manager) Sweep() int {
	if m.config.IdleTTL <= 0 {
		return 0
	}
	now := m.now()

	m.mu.Lock()
	removed := 0
	for id, e := range m.sessions {
		if e.meta.IsIdle(now, m.config.IdleTTL) {
			delete(m.sessions, id)
			removed++
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.ConversationSessionsActive.Set(float64(n))
	if removed > 0 {
		m.logger.Info("idle sessions swept", map[string]interface{}{
			"removed":   removed,
			"remaining": n,
		})
	}
	return removed
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// IDs returns the live session IDs, oldest first.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].meta.CreatedAt.Equal(entries[j].meta.CreatedAt) {
			return entries[i].meta.ID < entries[j].meta.ID
		}
		return entries[i].meta.CreatedAt.Before(entries[j].meta.CreatedAt)
	})
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.meta.ID
	}
	return ids
}

func (m *Manager) evictOldestLocked() {
	var oldest *entry
	for _, e := range m.sessions {
		if oldest == nil || e.meta.LastActivity.Before(oldest.meta.LastActivity) {
			oldest = e
		}
	}
	if oldest == nil {
		return
	}
	delete(m.sessions, oldest.meta.ID)
	m.logger.Warn("session cap reached, evicting least recently active", map[string]interface{}{
		"sessionId":   oldest.meta.ID,
		"maxSessions": m.config.MaxSessions,
	})
}
