package mp4

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAvccToAnnexB(t *testing.T) {
	in := []byte{
		0, 0, 0, 2, 0x65, 0x88,
		0, 0, 0, 1, 0x41,
	}
	require.Equal(t, []byte{
		0, 0, 0, 1, 0x65, 0x88,
		0, 0, 0, 1, 0x41,
	}, avccToAnnexB(in))

	truncated := []byte{0, 0, 0, 1, 0x41, 0, 0, 0, 9, 0x01}
	require.Equal(t, []byte{0, 0, 0, 1, 0x41}, avccToAnnexB(truncated))
	require.Empty(t, avccToAnnexB(nil))
}

func TestParameterSetsAnnexB(t *testing.T) {
	got := parameterSetsAnnexB([][]byte{{0x67, 0x01}}, [][]byte{{0x68}})
	require.Equal(t, []byte{0, 0, 0, 1, 0x67, 0x01, 0, 0, 0, 1, 0x68}, got)
	require.Empty(t, parameterSetsAnnexB())
}

func TestWithPrefix(t *testing.T) {
	data := []byte{1, 2}
	require.Equal(t, data, withPrefix(nil, data))
	require.Equal(t, []byte{9, 1, 2}, withPrefix([]byte{9}, data))
}
