package montecarlo

// haltonSequence returns the base-2 (or arbitrary base) Halton
// low-discrepancy sequence value at the given 1-based index, by
// radical-inverse digit reversal.
func haltonSequence(index, base int) float64 {
	result := 0.0
	f := 1.0 / float64(base)
	i := index
	for i > 0 {
		result += f * float64(i%base)
		i /= base
		f /= float64(base)
	}
	return result
}
