// Package functional implements the sublinear single-coordinate
// functional estimator: given A, b, and a target vector t with
// ‖t‖₁ = 1, it estimates tᵀx* to additive error ε without ever
// materializing the full solution x*, in time governed by A's
// structural parameters (dominance δ, sparsity, p-norm gap) rather than
// by its dimension n.
//
// It also carries the temporal-lead accounting the system's queries are
// motivated by: comparing local compute time against the light-travel
// time a caller would otherwise wait for a round-trip network message.
// This is local predictive computation, not a faster-than-light
// signaling claim, and every Certificate documents that distinction
// explicitly.
package functional
