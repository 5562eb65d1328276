package types

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateAppendAndLast(t *testing.T) {
	s := NewState()
	assert.Equal(t, 0, s.Len())

	_, ok := s.Last()
	assert.False(t, ok)

	s.Append(NewUserMessage("hello"))
	s.Append(NewMessage("Scheduler", "when works for you?"))

	require.Equal(t, 2, s.Len())
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "Scheduler", last.Sender)
	assert.Equal(t, "when works for you?", last.Content)
}

func TestStateSeededMessages(t *testing.T) {
	s := NewState(NewUserMessage("hi"), NewSupervisorMessage("Intake"))
	require.Equal(t, 2, s.Len())
	assert.Equal(t, SenderUser, s.Messages()[0].Sender)
	assert.Equal(t, SenderSupervisor, s.Messages()[1].Sender)
}

func TestStateSnapshotIsDefensiveCopy(t *testing.T) {
	s := NewState(NewUserMessage("hi"))
	snap := s.Snapshot()
	require.Len(t, snap, 1)

	snap[0].Content = "mutated"
	assert.Equal(t, "hi", s.Messages()[0].Content)

	s.Append(NewMessage("Intake", "hello"))
	assert.Len(t, snap, 1)
}

// Appending never rewrites history: after any sequence of appends the
// earlier log is a strict prefix of the later one.
func TestStateAppendOnlyProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	genMessages := gen.SliceOf(gen.AlphaString().Map(func(content string) Message {
		return NewMessage("agent", content)
	}))

	properties.Property("earlier log is a strict prefix after append", prop.ForAll(
		func(initial []Message, extra []Message) bool {
			s := NewState(initial...)
			before := s.Snapshot()

			for _, msg := range extra {
				s.Append(msg)
			}

			after := s.Messages()
			if len(after) != len(before)+len(extra) {
				return false
			}
			for i, msg := range before {
				if after[i] != msg {
					return false
				}
			}
			return true
		},
		genMessages,
		genMessages,
	))

	properties.TestingRun(t)
}
