package inputtag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSerialiseRoundTrip(t *testing.T) {
	cases := []string{
		"cuba::ps_points",
		"cuba::ps_points/3",
		"matrixElement::output",
		"gen1::particle/0",
	}
	for _, s := range cases {
		tag, err := Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, tag.String())
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	bad := []string{
		"noseparator",
		"m::",
		"::p",
		"m::p/",
		"m::p/-1",
		"m::p/x",
		"m ::p",
		"m::p ",
	}
	for _, s := range bad {
		_, err := Parse(s)
		assert.Error(t, err, s)
	}
}

func TestEqualityIgnoresNothingHidden(t *testing.T) {
	a, _ := Parse("m::p/3")
	b := NewIndexed("m", "p", 3)
	assert.True(t, a.Equal(b))
}

func TestScalarDropsIndex(t *testing.T) {
	tag := NewIndexed("m", "p", 5)
	assert.Equal(t, New("m", "p"), tag.Scalar())
}
