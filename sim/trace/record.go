// Package trace provides decision-trace recording for terminal policy analysis.
// This package has no dependencies on sim/ or sim/port/; it stores pure data types.
package trace

// PierCandidate captures one pier's state at the moment a vessel chose a berth.
type PierCandidate struct {
	Pier     string  `json:"pier"`
	Score    float64 `json:"score"`
	QueueLen int     `json:"queue_len"`
	InUse    int     `json:"in_use"`
	Capacity int     `json:"capacity"`
}

// BerthRecord captures a single pier-selection decision.
type BerthRecord struct {
	VesselID   int             `json:"vessel_id"`
	Clock      float64         `json:"clock"`
	ChosenPier string          `json:"chosen_pier"`
	Candidates []PierCandidate `json:"candidates"` // in tie-break order
	Margin     float64         `json:"margin"`     // best alternative score - chosen score; 0 on a tie
}

// Claim rules applied by the container selection policy.
const (
	ClaimSingle40     = "single-40ft"
	ClaimPair20       = "two-20ft"
	ClaimSingle20     = "one-20ft"
	ClaimAny          = "any"
	ClaimBlocked      = "blocked"
	ClaimBlockedPair  = "blocked+20ft"
	ClaimCustomPolicy = "custom"
)

// ClaimRecord captures which ready containers a truck took and why.
type ClaimRecord struct {
	TruckID       int      `json:"truck_id"`
	Clock         float64  `json:"clock"`
	Rule          string   `json:"rule"`
	ContainerIDs  []string `json:"container_ids"`
	PickedTEU     int      `json:"picked_teu"`
	ReadyPoolSize int      `json:"ready_pool_size"` // items in the pool when the claim started
}

// BookingRecord captures how one slot booking was resolved before the run.
type BookingRecord struct {
	BookedSlot   float64 `json:"booked_slot"`
	ResolvedSlot float64 `json:"resolved_slot"`
	Arrival      float64 `json:"arrival"`
	Missed       int     `json:"missed"`
	Attempts     int     `json:"attempts"`
	Dropped      bool    `json:"dropped"` // attempt cap reached without an accepted arrival
}
