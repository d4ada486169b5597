package input

import (
	"sync"
	"time"
)

// Kind classifies a user input event
type Kind int

const (
	PointerDown Kind = iota
	TouchStart
	KeyDown
)

func (k Kind) String() string {
	switch k {
	case PointerDown:
		return "pointerdown"
	case TouchStart:
		return "touchstart"
	case KeyDown:
		return "keydown"
	default:
		return "unknown"
	}
}

// Event is a single user input
type Event struct {
	Kind Kind
	Key  string
	At   time.Time
}

// Handler receives dispatched input events
type Handler func(Event)

// Activator is told about user activation before listeners run
type Activator interface {
	Grant()
}

type listener struct {
	id uint64
	fn Handler
}

// Dispatcher is the application-wide registry of input listeners
type Dispatcher struct {
	mu        sync.Mutex
	listeners map[Kind][]listener
	nextID    uint64
	activator Activator
}

// NewDispatcher creates a dispatcher. activator may be nil.
func NewDispatcher(activator Activator) *Dispatcher {
	return &Dispatcher{
		listeners: make(map[Kind][]listener),
		activator: activator,
	}
}

// AddListener registers fn for kind and returns a function removing it.
// The remover is safe to call more than once.
func (d *Dispatcher) AddListener(kind Kind, fn Handler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.listeners[kind] = append(d.listeners[kind], listener{id: id, fn: fn})

	return func() {
		d.remove(kind, id)
	}
}

func (d *Dispatcher) remove(kind Kind, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	subs := d.listeners[kind]
	for i, l := range subs {
		if l.id == id {
			d.listeners[kind] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Dispatch grants user activation and then calls the listeners registered
// for ev.Kind at the time of the call. Listeners may add or remove
// listeners while running.
func (d *Dispatcher) Dispatch(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	if d.activator != nil {
		d.activator.Grant()
	}

	d.mu.Lock()
	snapshot := make([]listener, len(d.listeners[ev.Kind]))
	copy(snapshot, d.listeners[ev.Kind])
	d.mu.Unlock()

	for _, l := range snapshot {
		l.fn(ev)
	}
}

// Listeners returns the number of listeners registered for kind
func (d *Dispatcher) Listeners(kind Kind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners[kind])
}
