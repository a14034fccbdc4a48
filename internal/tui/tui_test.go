package tui

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelUpdate(t *testing.T) {
	m := New("Generating", func() (string, error) { return "", nil })
	assert.Contains(t, m.View(), "Generating")

	next, cmd := m.Update(resultMsg{text: "Add cache"})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	done := next.(Model)
	assert.True(t, done.done)
	assert.Equal(t, "Add cache", done.result.text)
	assert.Empty(t, done.View())
}

func TestSpinnerDisabled(t *testing.T) {
	s := &Spinner{Disabled: true}
	out, err := s.Run(context.Background(), "Generating", func(context.Context) (string, error) {
		return "Add cache", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Add cache", out)
}

func TestSpinnerRun(t *testing.T) {
	var buf bytes.Buffer
	s := &Spinner{Out: &buf}

	out, err := s.Run(context.Background(), "Generating", func(context.Context) (string, error) {
		time.Sleep(50 * time.Millisecond)
		return "Add cache", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Add cache", out)

	boom := errors.New("boom")
	_, err = s.Run(context.Background(), "Generating", func(context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestSpinnerCancel(t *testing.T) {
	var buf bytes.Buffer
	s := &Spinner{Out: &buf}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := s.Run(ctx, "Generating", func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
