package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil error exits zero":        {err: nil, want: 0},
		"exitError reports its code":  {err: &exitError{code: 1, err: errors.New("not found")}, want: 1},
		"other exitError code":        {err: &exitError{code: 2, err: errors.New("boom")}, want: 2},
		"plain error defaults to two": {err: errors.New("boom"), want: 2},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, exitCode(tc.err))
		})
	}
}
