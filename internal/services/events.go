package services

import (
	"bookclub/internal/logging"
)

// Routing keys of published domain events.
const (
	EventClubCreated       = "club.created"
	EventMeetingScheduled  = "meeting.scheduled"
	EventMeetingAttendance = "meeting.attendance"
	EventPostCreated       = "post.created"
	EventProgressRecorded  = "progress.recorded"
)

// EventPublisher publishes domain events. *rabbitmq.Client implements it.
type EventPublisher interface {
	PublishEvent(routingKey string, payload interface{}) error
}

// publish sends an event when a publisher is configured. Failures are logged
// and never returned to the caller.
func publish(p EventPublisher, routingKey string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(routingKey, payload); err != nil {
		logging.Warn().Err(err).Str("event", routingKey).Msg("failed to publish event")
		return
	}
	logging.Debug().Str("event", routingKey).Msg("event published")
}
