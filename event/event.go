// Package event defines the fire-and-forget notifications a source handler
// posts to its owning module.
package event

import (
	"fmt"

	"github.com/phuslu/goid"
)

type Type int

const (
	UndefinedType = Type(iota)

	// TypeStreamError means the stream is terminated and its resources are
	// released; the owning module decides whether to register it again.
	TypeStreamError
)

func (t Type) String() string {
	switch t {
	case UndefinedType:
		return "undefined"
	case TypeStreamError:
		return "stream_error"
	}
	return fmt.Sprintf("unknown_%d", int(t))
}

type Event struct {
	Type       Type
	ModuleName string
	Message    string
	StreamID   string

	// GoroutineID identifies the goroutine that posted the event.
	GoroutineID int64
}

// New fills in GoroutineID with the calling goroutine.
func New(
	t Type,
	moduleName string,
	streamID string,
	message string,
) Event {
	return Event{
		Type:        t,
		ModuleName:  moduleName,
		Message:     message,
		StreamID:    streamID,
		GoroutineID: goid.Goid(),
	}
}

func (e Event) String() string {
	return fmt.Sprintf("Event(%s; module:%s; stream:%s; goroutine:%d): %s", e.Type, e.ModuleName, e.StreamID, e.GoroutineID, e.Message)
}
