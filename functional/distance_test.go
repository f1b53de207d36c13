package functional_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/functional"
)

func TestKilometersConvertsToMeters(t *testing.T) {
	d := functional.Kilometers(1)
	require.InDelta(t, 1000.0, d.AsMeters(), 1e-9)
}

func TestLightSecondsMatchesSpeedOfLight(t *testing.T) {
	d := functional.LightSeconds(1)
	require.InDelta(t, functional.SpeedOfLightMPS, d.AsMeters(), 1e-6)
}

func TestLightTravelTimeOneAUIsAboutEightMinutes(t *testing.T) {
	lt := functional.OneAU.LightTravelTime()
	require.InDelta(t, (8*time.Minute + 20*time.Second).Seconds(), lt.Seconds(), 2.0)
}

func TestNamedDistancesAreOrderedByScale(t *testing.T) {
	require.Less(t, functional.TokyoToNYC.AsMeters(), functional.EarthToMoon.AsMeters())
	require.Less(t, functional.EarthToMoon.AsMeters(), functional.EarthToMarsMin.AsMeters())
	require.Less(t, functional.EarthToMarsMin.AsMeters(), functional.EarthToMarsMax.AsMeters())
}
