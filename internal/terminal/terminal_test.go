package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinesToClear(t *testing.T) {
	tests := []struct {
		length, width, want int
	}{
		{0, 80, 2},
		{10, 80, 2},
		{80, 80, 2},
		{81, 80, 3},
		{200, 40, 6},
	}
	for _, tt := range tests {
		if got := linesToClear(tt.length, tt.width); got != tt.want {
			t.Errorf("linesToClear(%d, %d) = %d, want %d", tt.length, tt.width, got, tt.want)
		}
	}
}

func TestReaderPrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewReaderPrompter(strings.NewReader("alice\n  s3cret  \nlast"), &out)

	user, err := p.Line("Username: ")
	require.NoError(t, err)
	assert.Equal(t, "alice", user)

	pw, err := p.Secret("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)

	last, err := p.Line("Again: ")
	require.NoError(t, err)
	assert.Equal(t, "last", last)

	_, err = p.Line("More: ")
	assert.ErrorIs(t, err, ErrNoInput)

	assert.Equal(t, "Username: Password: Again: More: ", out.String())
}
