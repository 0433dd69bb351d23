package form

import "sort"

// EventKind identifies what changed in a form.
type EventKind string

const (
	EventChange   EventKind = "change"
	EventBlur     EventKind = "blur"
	EventValidate EventKind = "validate"
	EventDisabled EventKind = "disabled"
	EventArray    EventKind = "array"
	EventStatus   EventKind = "status"
)

// Event is delivered to subscribers after a state change has been applied.
// Path is empty for form-wide events.
type Event struct {
	Kind   EventKind
	Path   string
	Status Status
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it. Events are delivered in order, outside the form's lock, so
// fn may read the form.
func (f *Form) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subscribers[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subscribers, id)
		f.mu.Unlock()
	}
}

// listeners snapshots the subscribers in registration order. Callers hold mu.
func (f *Form) listeners() []func(Event) {
	if len(f.subscribers) == 0 {
		return nil
	}
	ids := make([]int, 0, len(f.subscribers))
	for id := range f.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(Event), len(ids))
	for i, id := range ids {
		out[i] = f.subscribers[id]
	}
	return out
}

// pending collects events raised while the form is locked.
type pending struct {
	events    []Event
	listeners []func(Event)
}

func (p *pending) add(kind EventKind, path string) {
	p.events = append(p.events, Event{Kind: kind, Path: path})
}

func (p *pending) disabled(paths []string) {
	for _, path := range paths {
		p.add(EventDisabled, path)
	}
}

// unlockAndNotify releases mu and then delivers the collected events.
func (f *Form) unlockAndNotify(p *pending) {
	if len(p.events) > 0 {
		p.listeners = f.listeners()
	}
	status := f.status
	f.mu.Unlock()
	for _, event := range p.events {
		if event.Status == "" {
			event.Status = status
		}
		for _, fn := range p.listeners {
			fn(event)
		}
	}
}
