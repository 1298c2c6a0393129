package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// SessionStartedEvent is emitted after a successful login.
type SessionStartedEvent struct {
	Username  string    `json:"username"`
	LoginTime time.Time `json:"login_time"`
}

// SessionStartedV1 is the typed event definition for logins.
// Subject: events.session.v1.session-started
var SessionStartedV1 = helper.EventDefinition[SessionStartedEvent](
	"session", "SessionStarted", "v1",
)

// SessionEndedEvent is emitted after logout.
// SessionKey identifies the sign-in that ended.
type SessionEndedEvent struct {
	Username   string    `json:"username"`
	SessionKey string    `json:"session_key"`
	EndedAt    time.Time `json:"ended_at"`
}

// SessionEndedV1 is the typed event definition for logouts.
// Subject: events.session.v1.session-ended
var SessionEndedV1 = helper.EventDefinition[SessionEndedEvent](
	"session", "SessionEnded", "v1",
)
