package ecs

import (
	"github.com/phanxgames/splash"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// NotificationEvent is the Donburi event type for splash notifications.
// Events are queued; run ProcessEvents (or events.ProcessAllEvents) in a
// system to deliver them.
var NotificationEvent = events.NewEventType[splash.Notification]()

// ObjectData mirrors the state of one library object.
type ObjectData struct {
	ID      string
	Kind    splash.Kind
	InCrowd bool
	Hovered bool
	// Pressed is the button state of the last click over the object.
	Pressed bool
	// LastShown is the crowd entry time of the last show notification.
	LastShown int
}

// Object is the component attached to every mirrored entity.
var Object = donburi.NewComponentType[ObjectData]()

// DonburiSink is a splash.NotificationSink backed by a Donburi world.
type DonburiSink struct {
	world    donburi.World
	entities map[string]donburi.Entity
}

var _ splash.NotificationSink = (*DonburiSink)(nil)

// NewDonburiSink creates a sink that keeps one entity per library object in
// world. Objects created before the sink was installed are mirrored on
// their first notification.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{world: world, entities: make(map[string]donburi.Entity)}
}

// Entity returns the entity mirroring the object id.
func (s *DonburiSink) Entity(id string) (donburi.Entity, bool) {
	e, ok := s.entities[id]
	if !ok || !s.world.Valid(e) {
		var none donburi.Entity
		return none, false
	}
	return e, true
}

// Notify updates the mirrored entity and publishes n.
func (s *DonburiSink) Notify(n splash.Notification) {
	if n.Type == splash.NotifyDelete {
		if e, ok := s.Entity(n.ObjectID); ok {
			s.world.Remove(e)
		}
		delete(s.entities, n.ObjectID)
		NotificationEvent.Publish(s.world, n)
		return
	}

	data := Object.Get(s.entry(n))
	switch n.Type {
	case splash.NotifyShow:
		// Chunk sounds are announced without entering the crowd.
		data.InCrowd = !n.Chunk
		data.LastShown = n.Timestamp
	case splash.NotifyHide:
		data.InCrowd, data.Hovered, data.Pressed = false, false, false
	case splash.NotifyPointerOver:
		data.Hovered = true
	case splash.NotifyPointerClick:
		data.Hovered, data.Pressed = true, n.Pressed
	case splash.NotifyPointerOut:
		data.Hovered, data.Pressed = false, false
	}
	NotificationEvent.Publish(s.world, n)
}

func (s *DonburiSink) entry(n splash.Notification) *donburi.Entry {
	e, ok := s.Entity(n.ObjectID)
	if !ok {
		e = s.world.Create(Object)
		s.entities[n.ObjectID] = e
		entry := s.world.Entry(e)
		Object.SetValue(entry, ObjectData{ID: n.ObjectID, Kind: n.Kind})
		return entry
	}
	return s.world.Entry(e)
}
