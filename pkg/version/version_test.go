package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	assert.Equal(t, "1.3a", Version13a.String())
	assert.Equal(t, "1.4", Version14.String())
	assert.Equal(t, "2.0", Version20.String())
	assert.Equal(t, "0x01", Version(1).String())
}

func TestParse(t *testing.T) {
	v, err := Parse("1.4")
	require.NoError(t, err)
	assert.Equal(t, Version14, v)

	v, err = Parse("1.3A")
	require.NoError(t, err)
	assert.Equal(t, Version13a, v)

	_, err = Parse("3.0")
	assert.Error(t, err)
}

func TestParseStringRoundTrip(t *testing.T) {
	for _, v := range []Version{Version13a, Version14, Version20} {
		parsed, err := Parse(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
}

func TestCompatible(t *testing.T) {
	assert.True(t, Version20.Compatible(Version13a))
	assert.True(t, Version14.Compatible(Version14))
	assert.False(t, Version14.Compatible(Version20))
	assert.False(t, Version14.Compatible(Version(0x01)))
}
