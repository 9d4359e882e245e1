package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEntityFlagsHas(t *testing.T) {
	f := UOrigin1 | UOrigin2 | UModel
	require.True(t, f.Has(UOrigin1))
	require.True(t, f.Has(UModel))
	require.False(t, f.Has(UAngle1))
}

func TestEntityFlags32CompositesMatchEitherHalf(t *testing.T) {
	require.Equal(t, USkin8|USkin16, USkin32)
	require.True(t, EntityFlags(USkin32).Has(USkin8))
	require.True(t, EntityFlags(USkin32).Has(USkin16))
}

func TestPlayerFlagsHas(t *testing.T) {
	f := PSViewAngles | PSBlend
	require.True(t, f.Has(PSViewAngles))
	require.True(t, f.Has(PSBlend))
	require.False(t, f.Has(PSFov))
}

func TestSoundFlagsHelpers(t *testing.T) {
	f := SoundVolume | SoundEnt
	require.True(t, f.HasVolume())
	require.True(t, f.HasEnt())
	require.False(t, f.HasPos())
	require.False(t, f.HasOffset())
}

func TestVersionString(t *testing.T) {
	require.Equal(t, "vanilla", VersionVanilla.String())
	require.Equal(t, "q2pro", VersionQ2PRO.String())
}
