package domain

import (
	"errors"
	"time"

	"restobar/events"
)

var ErrUnknownEmailKind = errors.New("unknown email kind")

type Email struct {
	To      string
	Subject string
	Body    string
}

// RealtimeMessage is the frame pushed to every connected screen.
type RealtimeMessage struct {
	Channel   string         `json:"channel"`
	Message   string         `json:"message,omitempty"`
	Data      events.Payload `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}
