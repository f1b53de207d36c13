// Package montecarlo estimates the solution to A x = b by averaging many
// random walks over the graph A induces: each walk accumulates
// b-weighted contributions along a path sampled from A's row
// distributions, with a restart probability that corresponds to the
// matrix's implicit Neumann-series truncation. A seedable, per-engine RNG
// keeps results reproducible across runs with the same seed, and a set
// of variance-reduction strategies (antithetic pairing, importance
// sampling, stratified sampling, Halton quasi-Monte-Carlo) aim to reduce
// sample variance.
package montecarlo
