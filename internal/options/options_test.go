package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	a int
	b string
}

func TestApplyInOrder(t *testing.T) {
	tgt := &target{}

	err := Apply(tgt,
		NoError(func(x *target) { x.a = 1 }),
		New(func(x *target) error {
			x.b = "set"
			return nil
		}),
		NoError(func(x *target) { x.a = 2 }),
	)

	require.NoError(t, err)
	require.Equal(t, 2, tgt.a)
	require.Equal(t, "set", tgt.b)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	tgt := &target{}
	boom := errors.New("boom")

	err := Apply(tgt,
		NoError(func(x *target) { x.a = 1 }),
		New(func(*target) error { return boom }),
		NoError(func(x *target) { x.a = 99 }),
	)

	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, tgt.a, "options after the failing one must not run")
}
