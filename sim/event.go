package sim

// Event represents a simulation event
type Event interface {
	Timestamp() float64
	EventID() uint64
	Execute(s *Simulator)
}

// baseEvent provides common event fields
type baseEvent struct {
	timestamp float64
	eventID   uint64
}

func (e *baseEvent) Timestamp() float64 {
	return e.timestamp
}

func (e *baseEvent) EventID() uint64 {
	return e.eventID
}

// WakeEvent resumes a suspended (or not yet started) process.
type WakeEvent struct {
	baseEvent
	Process *Process
}

func (e *WakeEvent) Execute(s *Simulator) {
	s.resume(e.Process)
}

// CallbackEvent runs a function on the scheduler without a process.
// Used for bookkeeping that must happen at a fixed simulated time.
type CallbackEvent struct {
	baseEvent
	Fn func(s *Simulator)
}

func (e *CallbackEvent) Execute(s *Simulator) {
	e.Fn(s)
}
