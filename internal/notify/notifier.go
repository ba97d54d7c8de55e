package notify

import "log"

type Event struct {
	TenantID      uint   `json:"tenant_id"`
	AppointmentID uint   `json:"appointment_id"`
	Action        string `json:"action"`
}

// Notifier receives best-effort appointment-change events. The real
// fan-out (sockets, calendars) lives behind this interface; the
// booking engine never blocks on it and never fails because of it.
type Notifier interface {
	AppointmentChanged(ev Event)
}

type Noop struct{}

func (Noop) AppointmentChanged(Event) {}

// LogNotifier is the default sink when no fan-out is wired.
type LogNotifier struct{}

func (LogNotifier) AppointmentChanged(ev Event) {
	log.Printf(
		"appointment %s: tenant=%d appointment=%d",
		ev.Action, ev.TenantID, ev.AppointmentID,
	)
}
