// Package telemetry publishes standby lifecycle events to MQTT for the
// measurement harness. Publishing is optional (the controller runs without a
// broker) and must never delay or reorder a power transition.
package telemetry

import (
	"encoding/json"
	"time"
)

// Topic is the MQTT topic for standby lifecycle events.
const Topic = "devices/watcher/standby/events"

// EventType identifies a lifecycle event.
type EventType string

const (
	EventStartup  EventType = "STARTUP"
	EventWake     EventType = "WAKE"
	EventSleep    EventType = "SLEEP"
	EventShutdown EventType = "SHUTDOWN"
	EventBattery  EventType = "BATTERY"
)

// Event is a standby lifecycle event to publish.
type Event struct {
	Timestamp time.Time
	Type      EventType
	ScreenOn  bool

	// BatteryPercent is the last rendered percentage, or -1 before the
	// first reading.
	BatteryPercent int

	// WakeCause is set on STARTUP events only.
	WakeCause string
}

// terminal reports whether the event precedes a terminal power action and
// should be delivered at-least-once.
func (e Event) terminal() bool {
	return e.Type == EventSleep || e.Type == EventShutdown
}

// Publisher publishes lifecycle events.
type Publisher interface {
	// Publish sends an event to the broker. Errors are reportable but
	// must not abort the caller's power transition.
	Publish(event Event) error

	// Close flushes and disconnects from the broker.
	Close() error
}

// Payload is the MQTT message payload structure.
type Payload struct {
	Standby StandbyPayload `json:"standby"`
}

// StandbyPayload contains the lifecycle event details.
type StandbyPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Screen    string `json:"screen"`
	Battery   *int   `json:"battery,omitempty"`
	WakeCause string `json:"wake_cause,omitempty"`
}

// FormatPayload creates the JSON payload for a lifecycle event.
func FormatPayload(event Event) ([]byte, error) {
	screen := "OFF"
	if event.ScreenOn {
		screen = "ON"
	}

	payload := Payload{
		Standby: StandbyPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Screen:    screen,
			WakeCause: event.WakeCause,
		},
	}
	if event.BatteryPercent >= 0 {
		pct := event.BatteryPercent
		payload.Standby.Battery = &pct
	}
	return json.Marshal(payload)
}
