package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and161185/syncads/internal/errs"
	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/state"
)

func TestChat_SendAppendsReply(t *testing.T) {
	store := newMemStore()
	var typingSeen atomic.Bool
	unsub := store.Subscribe(func(st state.State) {
		if st.IsAssistantTyping {
			typingSeen.Store(true)
		}
	})
	defer unsub()

	var svc ChatService = NewChatService(store, func(prompt, text string) string { return "eco: " + text }, Delays{}, nil)
	reply, err := svc.Send(context.Background(), "", "  olá  ")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, "eco: olá", reply.Content)

	c, _ := store.State().Conversation("conv-1")
	n := len(c.Messages)
	require.GreaterOrEqual(t, n, 2)
	assert.Equal(t, "olá", c.Messages[n-2].Content)
	assert.Equal(t, model.RoleUser, c.Messages[n-2].Role)
	assert.True(t, typingSeen.Load())
	assert.False(t, store.State().IsAssistantTyping)
}

func TestChat_SendCancelledClearsTyping(t *testing.T) {
	store := newMemStore()
	svc := NewChatService(store, nil, Delays{TypingMin: time.Hour, TypingMax: time.Hour}, nil)
	before, _ := store.State().Conversation("conv-2")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Send(ctx, "conv-2", "oi")
		done <- err
	}()
	require.Eventually(t, func() bool { return store.State().IsAssistantTyping }, time.Second, time.Millisecond)
	cancel()

	require.ErrorIs(t, <-done, context.Canceled)
	after, _ := store.State().Conversation("conv-2")
	assert.Len(t, after.Messages, len(before.Messages)+1)
	assert.False(t, store.State().IsAssistantTyping)
}

func TestChat_SendErrors(t *testing.T) {
	svc := NewChatService(newMemStore(), nil, Delays{}, nil)
	_, err := svc.Send(context.Background(), "conv-1", "   ")
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = svc.Send(context.Background(), "conv-404", "oi")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestChat_Conversations(t *testing.T) {
	store := newMemStore()
	svc := NewChatService(store, nil, Delays{}, nil)

	c := svc.New("Plano Q4")
	assert.Equal(t, c.ID, store.State().ActiveConversationID)

	_, err := svc.Open("conv-2")
	require.NoError(t, err)
	assert.Equal(t, "conv-2", store.State().ActiveConversationID)
	_, err = svc.Open("conv-404")
	require.ErrorIs(t, err, errs.ErrNotFound)

	assert.True(t, svc.Delete("conv-2"))
	assert.Equal(t, c.ID, store.State().ActiveConversationID)
}

func TestCannedResponder_Deterministic(t *testing.T) {
	a := CannedResponder("p", "como melhorar o CTR?")
	assert.Equal(t, a, CannedResponder("outro", "como melhorar o CTR?"))
	assert.Contains(t, cannedReplies, a)
}
