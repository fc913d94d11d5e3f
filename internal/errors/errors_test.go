package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrSource, "sinfo failed", "Check that Slurm is installed")

	assert.Equal(t, ErrSource, err.Code)
	assert.Contains(t, err.Error(), "✗ sinfo failed")
	assert.Contains(t, err.Error(), "Check that Slurm is installed")
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(cause, "fetch failed")

	assert.Equal(t, ErrSource, err.Code)
	assert.Contains(t, err.Error(), "fetch failed")
	assert.Contains(t, err.Error(), "exit status 1")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapWithCode(cause, ErrExport, "cannot write export", "Check permissions")

	assert.Equal(t, ErrExport, err.Code)
	assert.Contains(t, err.Error(), "cannot write export")
	assert.Contains(t, err.Error(), "permission denied")
	assert.Contains(t, err.Error(), "Check permissions")
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{
			name: "matching code",
			err:  New(ErrConfig, "bad config", ""),
			code: ErrConfig,
			want: true,
		},
		{
			name: "non-matching code",
			err:  New(ErrConfig, "bad config", ""),
			code: ErrSource,
			want: false,
		},
		{
			name: "wrapped structured error",
			err:  WrapWithCode(errors.New("inner"), ErrParse, "outer", ""),
			code: ErrParse,
			want: true,
		},
		{
			name: "plain error",
			err:  errors.New("plain"),
			code: ErrSource,
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			code: ErrSource,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCode(tt.err, tt.code))
		})
	}
}

func TestErrorsAs(t *testing.T) {
	err := New(ErrSource, "fetch failed", "")

	var structured *Error
	require.True(t, errors.As(err, &structured))
	assert.Equal(t, "fetch failed", structured.Message)
}
