package functional

import "time"

// TemporalLead compares local compute time against the light-travel
// time a caller would otherwise wait on for a round-trip network
// message. It is an auxiliary accounting figure, not a claim of
// faster-than-light signaling: nothing is transmitted faster than light,
// a local model is evaluated faster than a message could have arrived.
type TemporalLead struct {
	Distance    Distance
	LightTime   time.Duration
	ComputeTime time.Duration
	// Lead is LightTime - ComputeTime, floored at zero.
	Lead time.Duration
	// Note documents the prediction/signaling distinction explicitly;
	// callers displaying a Certificate should surface it verbatim.
	Note string
}

const temporalLeadNote = "local predictive computation against a cached/local matrix, " +
	"not faster-than-light information transfer: no signal was sent faster than light, " +
	"a local estimate was computed faster than a round trip could have completed."

func computeTemporalLead(distance Distance, computeTime time.Duration) TemporalLead {
	lightTime := distance.LightTravelTime()
	lead := time.Duration(0)
	if lightTime > computeTime {
		lead = lightTime - computeTime
	}
	return TemporalLead{
		Distance:    distance,
		LightTime:   lightTime,
		ComputeTime: computeTime,
		Lead:        lead,
		Note:        temporalLeadNote,
	}
}

// Certificate is the result of EstimateFunctional: an estimate of tᵀx*
// together with a proven additive error bound, the query budget actually
// consumed, and (optionally) temporal-lead accounting.
type Certificate struct {
	Value           float64
	ErrorBound      float64
	Queries         uint
	TimeBudgetUsed  time.Duration
	DominanceParams DominanceParameters
	TemporalLead    *TemporalLead
}
