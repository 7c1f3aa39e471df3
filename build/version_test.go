package build

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionInts(t *testing.T) {
	v := newVer(1, 2, 3)
	major, minor, patch := v.Ints()
	require.Equal(t, uint32(1), major)
	require.Equal(t, uint32(2), minor)
	require.Equal(t, uint32(3), patch)
	require.Equal(t, "1.2.3", v.String())

	require.True(t, v.EqMajorMinor(newVer(1, 2, 9)))
	require.False(t, v.EqMajorMinor(newVer(1, 3, 3)))
}
