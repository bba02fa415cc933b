package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures pier selection, truck claims and booking resolution.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel `json:"level"`
}

// SimulationTrace collects decision records during a terminal simulation.
type SimulationTrace struct {
	Config   TraceConfig     `json:"config"`
	Berths   []BerthRecord   `json:"berths"`
	Claims   []ClaimRecord   `json:"claims"`
	Bookings []BookingRecord `json:"bookings"`
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:   config,
		Berths:   make([]BerthRecord, 0),
		Claims:   make([]ClaimRecord, 0),
		Bookings: make([]BookingRecord, 0),
	}
}

// Enabled reports whether records should be collected. Safe on nil.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelDecisions
}

// RecordBerth appends a pier-selection record.
func (st *SimulationTrace) RecordBerth(record BerthRecord) {
	if !st.Enabled() {
		return
	}
	st.Berths = append(st.Berths, record)
}

// RecordClaim appends a truck claim record.
func (st *SimulationTrace) RecordClaim(record ClaimRecord) {
	if !st.Enabled() {
		return
	}
	st.Claims = append(st.Claims, record)
}

// RecordBooking appends a booking-resolution record.
func (st *SimulationTrace) RecordBooking(record BookingRecord) {
	if !st.Enabled() {
		return
	}
	st.Bookings = append(st.Bookings, record)
}
