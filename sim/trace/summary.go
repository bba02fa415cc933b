package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	BerthDecisions   int
	PierDistribution map[string]int // pier → vessels assigned
	MeanMargin       float64
	TieCount         int

	Claims         int
	ClaimsByRule   map[string]int
	ClaimedTEU     int
	BlockingClaims int // claims that found the ready-pool empty

	Bookings        int
	DroppedBookings int
	RebookedTrucks  int // accepted bookings with at least one missed slot
	MaxMissedSlots  int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		PierDistribution: make(map[string]int),
		ClaimsByRule:     make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.BerthDecisions = len(st.Berths)
	if len(st.Berths) > 0 {
		total := 0.0
		for _, b := range st.Berths {
			summary.PierDistribution[b.ChosenPier]++
			total += b.Margin
			if b.Margin == 0 {
				summary.TieCount++
			}
		}
		summary.MeanMargin = total / float64(len(st.Berths))
	}

	summary.Claims = len(st.Claims)
	for _, c := range st.Claims {
		summary.ClaimsByRule[c.Rule]++
		summary.ClaimedTEU += c.PickedTEU
		if c.Rule == ClaimBlocked || c.Rule == ClaimBlockedPair {
			summary.BlockingClaims++
		}
	}

	summary.Bookings = len(st.Bookings)
	for _, b := range st.Bookings {
		if b.Dropped {
			summary.DroppedBookings++
			continue
		}
		if b.Missed > 0 {
			summary.RebookedTrucks++
		}
		if b.Missed > summary.MaxMissedSlots {
			summary.MaxMissedSlots = b.Missed
		}
	}

	return summary
}
