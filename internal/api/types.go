package api

import (
	"time"

	"github.com/hackgods/medi-assist/internal/feedback"
)

// TransitionRequest is the body of PATCH /appointments/{id}.
type TransitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type FeedbackStatusRequest struct {
	Status feedback.Status `json:"status"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// MarkTakenRequest: a nil ScheduledTime means the medication's next dose.
type MarkTakenRequest struct {
	ScheduledTime *time.Time `json:"scheduledTime,omitempty"`
}
