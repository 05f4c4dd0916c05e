package session

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/scriptedit/internal/log"
)

// Event is a set of things that changed during one session call.
type Event uint8

const (
	CaretsChanged Event = 1 << iota
	TextChanged
	PaletteChanged
	ConfigChanged
)

// String returns the event names joined by "|".
func (e Event) String() string {
	var parts []string
	for _, n := range []struct {
		e    Event
		name string
	}{
		{CaretsChanged, "carets"},
		{TextChanged, "text"},
		{PaletteChanged, "palette"},
		{ConfigChanged, "config"},
	} {
		if e&n.e != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Observer is called after a mutation with the events it caused.
type Observer func(s *Session, ev Event)

type observerEntry struct {
	id   uint64
	name string
	mask Event
	fn   Observer
}

// observers calls its entries in registration order on the caller's
// goroutine.
type observers struct {
	entries []observerEntry
	nextID  uint64
}

func (o *observers) add(name string, mask Event, fn Observer) func() {
	o.nextID++
	id := o.nextID
	o.entries = append(o.entries, observerEntry{id: id, name: name, mask: mask, fn: fn})
	return func() {
		o.entries = slices.DeleteFunc(o.entries, func(e observerEntry) bool { return e.id == id })
	}
}

func (o *observers) notify(s *Session, ev Event) {
	if ev == 0 {
		return
	}
	// observers may remove themselves while running
	entries := slices.Clone(o.entries)
	for _, e := range entries {
		if e.mask&ev == 0 {
			continue
		}
		callObserver(s, e, ev)
	}
}

func callObserver(s *Session, e observerEntry, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(log.CatSession, "observer panic", "observer", e.name, "event", ev.String(), "panic", fmt.Sprint(r))
		}
	}()
	e.fn(s, ev&e.mask)
}
