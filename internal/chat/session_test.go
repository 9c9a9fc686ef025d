package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAppendAndMessages(t *testing.T) {
	s := NewSession("/tmp/work")

	s.Append(User("hello"), Assistant("hi"))

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, 2, s.MessageCount())
}

func TestSessionMessagesReturnsCopy(t *testing.T) {
	s := NewSession("/tmp/work")
	s.Append(User("original"))

	msgs := s.Messages()
	msgs[0].Content = "mutated"

	assert.Equal(t, "original", s.Messages()[0].Content)
}

func TestSessionClear(t *testing.T) {
	s := NewSession("/tmp/work")
	s.Append(User("a"), Assistant("b"))
	v := s.Version()

	s.Clear()

	assert.Equal(t, 0, s.MessageCount())
	assert.Greater(t, s.Version(), v)
}

func TestSessionVersionAdvancesOnAppend(t *testing.T) {
	s := NewSession("/tmp/work")
	v := s.Version()

	s.Append(User("a"))

	assert.Greater(t, s.Version(), v)
}
