package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and161185/syncads/internal/errs"
	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/state"
)

func TestSettings_SavePrompt(t *testing.T) {
	store := newMemStore()
	var svc SettingsService = NewSettingsService(store, Delays{}, nil)

	require.NoError(t, svc.SavePrompt(context.Background(), "Seja breve."))
	assert.Equal(t, "Seja breve.", store.State().AiSystemPrompt)

	require.NoError(t, svc.SavePrompt(context.Background(), strings.Repeat("é", MaxPromptChars)))
	err := svc.SavePrompt(context.Background(), strings.Repeat("a", MaxPromptChars+1))
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestSettings_Connections(t *testing.T) {
	store := newMemStore()
	svc := NewSettingsService(store, Delays{}, nil)

	_, err := svc.AddConnection(model.AiConnectionInput{Name: "x", APIKey: "k", BaseURL: "not a url"})
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = svc.AddConnection(model.AiConnectionInput{Name: " ", APIKey: ""})
	require.ErrorIs(t, err, errs.ErrValidation)

	c, err := svc.AddConnection(model.AiConnectionInput{Name: "OpenAI", APIKey: "sk-abc", BaseURL: "https://api.openai.com/v1"})
	require.NoError(t, err)
	assert.Equal(t, model.ConnUntested, c.Status)
	require.Len(t, store.State().AiConnections, 1)

	up, err := svc.UpdateConnection(c.ID, model.AiConnectionInput{Name: "OpenAI Prod"})
	require.NoError(t, err)
	assert.Equal(t, "OpenAI Prod", up.Name)
	assert.Equal(t, "", up.BaseURL)

	_, err = svc.UpdateConnection("conn-404", model.AiConnectionInput{Name: "x"})
	require.ErrorIs(t, err, errs.ErrNotFound)

	assert.True(t, svc.DeleteConnection(c.ID))
	assert.Empty(t, store.State().AiConnections)
}

func TestSettings_ApiKeys(t *testing.T) {
	store := newMemStore()
	svc := NewSettingsService(store, Delays{}, nil)
	k, plain, err := svc.GenerateApiKey()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(plain, state.ApiKeyPrefix))
	assert.NotContains(t, k.Masked, plain)
	assert.True(t, svc.RevokeApiKey(k.ID))
	assert.False(t, svc.RevokeApiKey(k.ID))
}

func TestSettings_Notifications(t *testing.T) {
	store := newMemStore()
	svc := NewSettingsService(store, Delays{}, nil)
	for _, f := range NotificationFields {
		require.NoError(t, svc.SetNotification(f, true))
	}
	n := store.State().NotificationSettings
	assert.True(t, n.EmailNews && n.PushIntegrations)
	require.ErrorIs(t, svc.SetNotification("sms", true), errs.ErrValidation)

	svc.SetTwoFactor(true)
	assert.True(t, store.State().IsTwoFactorEnabled)
}
