package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momemta/momemta-go/inputtag"
)

func TestPassiveAllocationThenPutIsVisibleWithoutRebinding(t *testing.T) {
	p := New()
	tag := inputtag.New("consumer", "x")

	reader, err := Get[float64](p, tag)
	require.NoError(t, err)
	assert.Equal(t, 0.0, reader.Get())

	writer, err := Put[float64](p, tag)
	require.NoError(t, err)
	writer.Set(42.0)

	// The handle obtained before Put observes the later write: no rebinding.
	assert.Equal(t, 42.0, reader.Get())
}

func TestDuplicateProducer(t *testing.T) {
	p := New()
	tag := inputtag.New("m", "x")
	_, err := Put[float64](p, tag)
	require.NoError(t, err)
	_, err = Put[float64](p, tag)
	assert.ErrorIs(t, err, ErrDuplicateProducer)
}

func TestAliasIdempotence(t *testing.T) {
	p := New()
	from := inputtag.New("m", "x")
	to := inputtag.New("n", "y")

	writer, err := Put[int](p, from)
	require.NoError(t, err)
	writer.Set(7)

	require.NoError(t, p.Alias(from, to))

	readFrom, err := Get[int](p, from)
	require.NoError(t, err)
	readTo, err := Get[int](p, to)
	require.NoError(t, err)

	assert.Equal(t, 7, readFrom.Get())
	assert.Equal(t, 7, readTo.Get())

	writer.Set(8)
	assert.Equal(t, 8, readTo.Get())
}

func TestIndexedTagForScalar(t *testing.T) {
	p := New()
	tag := inputtag.New("m", "x")
	_, err := Put[float64](p, tag)
	require.NoError(t, err)

	indexed := inputtag.NewIndexed("m", "x", 3)
	_, err = GetIndexed[float64](p, indexed)
	assert.ErrorIs(t, err, ErrIndexedTagForScalar)
}

func TestIndexedReadOnVector(t *testing.T) {
	p := New()
	tag := inputtag.New("m", "xs")
	writer, err := Put[[]float64](p, tag)
	require.NoError(t, err)
	writer.Set([]float64{1, 2, 3})

	idx, err := GetIndexed[float64](p, inputtag.NewIndexed("m", "xs", 2))
	require.NoError(t, err)
	assert.Equal(t, 3.0, idx.Get())

	// producer resizes between samples; index reads reflect the new value
	writer.Set([]float64{10, 20, 30, 40})
	assert.Equal(t, 30.0, idx.Get())
}

func TestFreezeRejectsUnknownTag(t *testing.T) {
	p := New()
	p.Freeze()
	_, err := Get[float64](p, inputtag.New("m", "x"))
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestTypeMismatch(t *testing.T) {
	p := New()
	tag := inputtag.New("m", "x")
	_, err := Put[float64](p, tag)
	require.NoError(t, err)
	_, err = Get[int](p, tag)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
