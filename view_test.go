package dynbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeMovesOccupantOut(t *testing.T) {
	box := New[answerer](64)
	defer box.Close()
	v := pair{A: 7, B: 9}
	Set(box, v)

	got, ok := Take[answerer, pair](box)
	require.True(t, ok)
	require.EqualExportedValues(t, v, got)
	assert.True(t, box.Empty())

	_, ok = Take[answerer, pair](box)
	assert.False(t, ok)
}

func TestTakeWrongTypeLeavesBoxIntact(t *testing.T) {
	box := New[answerer](64)
	defer box.Close()
	Set(box, pair{A: 7})

	_, ok := Take[answerer, small](box)
	assert.False(t, ok)
	require.False(t, box.Empty())
	got, ok := box.Get()
	require.True(t, ok)
	assert.Equal(t, 7, got.Answer())
}

func TestTakeDoesNotDispose(t *testing.T) {
	box := New[answerer](64)
	defer box.Close()
	drops := 0
	Set(box, tracked{Drops: &drops})

	got, ok := Take[answerer, tracked](box)
	require.True(t, ok)
	assert.Equal(t, 0, drops)

	// ownership moved back to the caller
	got.Dispose()
	assert.Equal(t, 1, drops)
	box.Clear()
	assert.Equal(t, 1, drops)
}

func TestViewTracksLiveOccupant(t *testing.T) {
	box := New[answerer](64)
	defer box.Close()
	Set(box, pair{A: 42})

	view := box.View()
	require.True(t, view.Valid())
	got, ok := view.Get()
	require.True(t, ok)
	assert.Equal(t, 42, got.Answer())
}

func TestViewGoesStaleOnClear(t *testing.T) {
	box := New[answerer](64)
	defer box.Close()
	Set(box, pair{A: 42})
	view := box.View()

	box.Clear()
	assert.False(t, view.Valid())
	_, ok := view.Get()
	assert.False(t, ok)
}

func TestViewGoesStaleOnOverwrite(t *testing.T) {
	box := New[answerer](64)
	defer box.Close()
	Set(box, pair{A: 1})
	view := box.View()

	Set(box, pair{A: 2})
	assert.False(t, view.Valid())

	fresh := box.View()
	got, ok := fresh.Get()
	require.True(t, ok)
	assert.Equal(t, 2, got.Answer())
}

func TestViewGoesStaleOnTake(t *testing.T) {
	box := New[answerer](64)
	defer box.Close()
	Set(box, pair{A: 1})
	view := box.View()

	_, ok := Take[answerer, pair](box)
	require.True(t, ok)
	assert.False(t, view.Valid())
}

func TestViewOnEmptyBoxIsAbsent(t *testing.T) {
	box := New[answerer](64)
	defer box.Close()
	view := box.View()
	assert.False(t, view.Valid())
	_, ok := view.Get()
	assert.False(t, ok)

	// a view captured while empty does not become valid later
	Set(box, pair{A: 1})
	assert.False(t, view.Valid())
}
