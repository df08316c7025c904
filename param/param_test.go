package param

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testParams struct {
	Interval uint32
	Show     bool
	Name     string
}

func newTestManager(t *testing.T) *Manager[testParams] {
	m := NewManager[testParams]()
	require.NoError(t, m.RegisterAll(
		Desc[testParams]{
			Name:         "interval",
			Description:  "Optional. Keep one frame out of N.",
			DefaultValue: "1",
			Type:         "uint32",
			Parse: func(value string, out *testParams) error {
				v, err := Str2U32(value)
				if err != nil {
					return err
				}
				if v == 0 {
					return errors.New("must be positive")
				}
				out.Interval = v
				return nil
			},
		},
		Desc[testParams]{
			Name:         "show",
			Description:  "Optional. Show statistics.",
			DefaultValue: "false",
			Type:         "bool",
			Parse: func(value string, out *testParams) (err error) {
				out.Show, err = Str2Bool(value)
				return
			},
		},
		Desc[testParams]{
			Name:        "name",
			Description: "Optional. A name.",
			Type:        "string",
			Parse: func(value string, out *testParams) error {
				out.Name = value
				return nil
			},
		},
	))
	return m
}

func TestRegister(t *testing.T) {
	m := newTestManager(t)
	require.ErrorIs(t, m.Register(Desc[testParams]{Name: "show", Type: "bool", Parse: func(string, *testParams) error { return nil }}), ErrDuplicateDesc)
	require.ErrorIs(t, m.Register(Desc[testParams]{Name: "x"}), ErrIllegalDesc)

	descs := m.Descriptions()
	require.Len(t, descs, 3)
	require.Equal(t, "interval", descs[0].Name)
	require.Equal(t, "Optional. Keep one frame out of N. --- type : [uint32] --- default value : [1]", descs[0].Text)
}

func TestParseBy(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	var p testParams
	require.NoError(t, m.ParseBy(ctx, Raw{"show": "TRUE", PassthroughKey: "/tmp"}, &p))
	require.Equal(t, testParams{Interval: 1, Show: true}, p)

	p = testParams{}
	err := m.ParseBy(ctx, Raw{"interval": "0"}, &p)
	var errParam ErrParam
	require.ErrorAs(t, err, &errParam)
	require.Equal(t, "interval", errParam.Name)
	require.Equal(t, "0", errParam.Value)

	require.ErrorIs(t, m.ParseBy(ctx, Raw{"unknown": "1"}, &p), ErrUnknownParam)
	require.Error(t, m.ParseBy(ctx, Raw{"show": "yes"}, &p))
	require.Error(t, m.ParseBy(ctx, Raw{}, nil))
}

func TestConverters(t *testing.T) {
	for _, s := range []string{"1", "true", "True", "TRUE"} {
		v, err := Str2Bool(s)
		require.NoError(t, err)
		require.True(t, v)
	}
	for _, s := range []string{"0", "false", "False", "FALSE"} {
		v, err := Str2Bool(s)
		require.NoError(t, err)
		require.False(t, v)
	}
	_, err := Str2Bool("tRuE")
	require.Error(t, err)

	u, err := Str2U32("4294967295")
	require.NoError(t, err)
	require.Equal(t, uint32(4294967295), u)
	_, err = Str2U32("4294967296")
	require.Error(t, err)
	_, err = Str2U32("-1")
	require.Error(t, err)

	i, err := Str2Int("-3")
	require.NoError(t, err)
	require.Equal(t, -3, i)

	f, err := Str2Float("29.97")
	require.NoError(t, err)
	require.InDelta(t, 29.97, f, 1e-9)
	_, err = Str2Float("fast")
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "source.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interval: 3\nshow: true\nname: cam0\n"), 0o644))

	raw, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "3", raw["interval"])
	require.Equal(t, "true", raw["show"])
	require.Equal(t, dir, raw[PassthroughKey])

	var p testParams
	require.NoError(t, newTestManager(t).ParseBy(context.Background(), raw, &p))
	require.Equal(t, testParams{Interval: 3, Show: true, Name: "cam0"}, p)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
