package models

import "time"

// Session describes one farmer conversation held by the worker process.
type Session struct {
	ID           string                 `json:"id" db:"id"`
	CreatedAt    time.Time              `json:"createdAt" db:"created_at"`
	LastActivity time.Time              `json:"lastActivity" db:"last_activity"`
	Turns        int                    `json:"turns" db:"turns"`
	Metadata     map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
}

// IsIdle reports whether the session has seen no activity for longer than ttl.
// A non-positive ttl never expires.
func (s *Session) IsIdle(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(s.LastActivity) > ttl
}

// UpdateActivity counts a turn and moves the activity timestamp.
func (s *Session) UpdateActivity(now time.Time) {
	s.Turns++
	s.LastActivity = now
}

// Clone returns a copy safe to hand out of a lock.
func (s *Session) Clone() Session {
	cp := *s
	if s.Metadata != nil {
		cp.Metadata = make(map[string]interface{}, len(s.Metadata))
		for k, v := range s.Metadata {
			cp.Metadata[k] = v
		}
	}
	return cp
}
