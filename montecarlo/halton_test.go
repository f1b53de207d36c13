package montecarlo

import "testing"

func TestHaltonSequenceBase2(t *testing.T) {
	cases := map[int]float64{1: 0.5, 2: 0.25, 3: 0.75, 4: 0.125}
	for index, want := range cases {
		got := haltonSequence(index, 2)
		if diff := got - want; diff > 1e-10 || diff < -1e-10 {
			t.Fatalf("haltonSequence(%d,2) = %g, want %g", index, got, want)
		}
	}
}
