package events

import (
	"time"

	"github.com/spec-kit/school-auth/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded  EventType = "login_succeeded"
	EventLoginFailed     EventType = "login_failed"
	EventTokenRefreshed  EventType = "token_refreshed"
	EventSessionRevoked  EventType = "session_revoked"
	EventRefreshRejected EventType = "refresh_rejected"
)

// Event represents an authentication event emitted by the auth service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id,omitempty"`
	SchoolID  int64       `json:"school_id,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Detail    string      `json:"detail,omitempty"`
}

// LoginFailedDetail values recorded on EventLoginFailed.
const (
	DetailUnknownAccount   = "unknown_account"
	DetailBadPassword      = "bad_password"
	DetailAccountSuspended = "account_suspended"
)
