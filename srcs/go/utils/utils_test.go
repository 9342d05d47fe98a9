package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Poll_OK(t *testing.T) {
	var n int
	f := func() bool {
		n++
		return n > 3
	}
	failed, ok := Poll(context.TODO(), f)
	require.True(t, ok)
	require.Equal(t, 3, failed)
}

func Test_Poll_Fail(t *testing.T) {
	ctx, cancel := context.WithCancel(context.TODO())
	var n int
	f := func() bool {
		n++
		if n == 2 {
			cancel()
		}
		return n > 3
	}
	failed, ok := Poll(ctx, f)
	require.False(t, ok)
	require.Equal(t, 2, failed)
}

func Test_MergeErrors(t *testing.T) {
	require.NoError(t, MergeErrors([]error{nil, nil}, "par"))
	err := MergeErrors([]error{nil, errors.New("a"), errors.New("b")}, "par")
	require.EqualError(t, err, "par failed with 2 errors: a, b")
	e := errors.New("first")
	require.Equal(t, e, FirstError([]error{nil, e, errors.New("second")}))
}

func Test_ShowSize(t *testing.T) {
	require.Equal(t, "1.0 KiB", ShowSize(1024))
	require.Equal(t, "2.0 MiB/s", ShowRate(2*1024*1024))
	require.Equal(t, "3 errors", Pluralize(3, "error", "errors"))
}
