package event

import (
	"testing"

	"github.com/phuslu/goid"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	e := New(TypeStreamError, "source", "cam0", "Decode failed.")
	require.Equal(t, TypeStreamError, e.Type)
	require.Equal(t, goid.Goid(), e.GoroutineID)
	require.Contains(t, e.String(), "stream_error")

	ch := make(chan Event)
	go func() {
		ch <- New(TypeStreamError, "source", "cam1", "")
	}()
	other := <-ch
	require.NotEqual(t, e.GoroutineID, other.GoroutineID)
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "undefined", UndefinedType.String())
	require.Equal(t, "stream_error", TypeStreamError.String())
	require.Equal(t, "unknown_2", (TypeStreamError + 1).String())
}
