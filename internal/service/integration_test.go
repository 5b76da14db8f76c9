package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and161185/syncads/internal/errs"
	"github.com/and161185/syncads/internal/model"
)

func TestIntegration_ConnectFlow(t *testing.T) {
	store := newMemStore()
	var svc IntegrationService = NewIntegrationService(store, nil)

	_, err := svc.Confirm("k")
	require.ErrorIs(t, err, errs.ErrInvalidTransition)

	require.ErrorIs(t, svc.Prompt("myspace"), errs.ErrNotFound)
	require.ErrorIs(t, svc.Prompt("github"), errs.ErrAlreadyExists)

	require.NoError(t, svc.Prompt("slack"))
	id, ok := svc.Pending()
	require.True(t, ok)
	assert.Equal(t, model.IntegrationID("slack"), id)

	_, err = svc.Confirm("  ")
	require.ErrorIs(t, err, errs.ErrValidation)
	_, ok = svc.Pending()
	assert.True(t, ok, "failed confirm keeps the prompt open")

	id, err = svc.Confirm("xoxb-123")
	require.NoError(t, err)
	assert.Equal(t, model.IntegrationID("slack"), id)
	assert.True(t, store.State().IsConnected("slack"))
	_, ok = svc.Pending()
	assert.False(t, ok)
}

func TestIntegration_CancelAndDisconnect(t *testing.T) {
	store := newMemStore()
	svc := NewIntegrationService(store, nil)

	require.NoError(t, svc.Prompt("hubspot"))
	svc.Cancel()
	_, err := svc.Confirm("key")
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.False(t, store.State().IsConnected("hubspot"))

	require.NoError(t, svc.Disconnect("github"))
	require.NoError(t, svc.Disconnect("github"))
	assert.False(t, store.State().IsConnected("github"))
	require.ErrorIs(t, svc.Disconnect("nope"), errs.ErrNotFound)
}

func TestIntegration_Catalog(t *testing.T) {
	svc := NewIntegrationService(newMemStore(), nil)
	cat := svc.Catalog()
	require.Len(t, cat, 9)
	connected := map[model.IntegrationID]bool{}
	for _, in := range cat {
		connected[in.ID] = in.Connected
	}
	assert.True(t, connected["google-analytics"])
	assert.True(t, connected["github"])
	assert.False(t, connected["shopify"])
}
