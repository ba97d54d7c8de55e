package notify

import "log"

// Dispatcher decouples the booking path from the notifier behind a
// buffered channel. Events are dropped when the queue is full: the
// hook must never block or fail a booking.
type Dispatcher struct {
	target Notifier
	queue  chan Event
}

func NewDispatcher(target Notifier) *Dispatcher {
	if target == nil {
		target = Noop{}
	}

	d := &Dispatcher{
		target: target,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		d.target.AppointmentChanged(ev)
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		log.Println("notify queue full, dropping event")
	}
}
