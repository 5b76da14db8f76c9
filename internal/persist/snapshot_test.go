package persist

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/seed"
)

func TestParseScope(t *testing.T) {
	assert.Equal(t, ScopeFull, ParseScope("full"))
	assert.Equal(t, ScopeSession, ParseScope("session"))
	assert.Equal(t, ScopeSession, ParseScope("bogus"))
}

func TestEncodeDecode_CurrentEnvelope(t *testing.T) {
	on := true
	prompt := "p"
	camps := []model.Campaign{{ID: "CAM-1", Name: "x", Impressions: 100, Clicks: 10, BudgetSpent: 5}}
	data, err := Encode(Fields{IsAuthenticated: &on, AiSystemPrompt: &prompt, Campaigns: &camps})
	require.NoError(t, err)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &env))
	assert.JSONEq(t, "1", string(env["version"]))

	f, err := Decode(data)
	require.NoError(t, err)
	require.NotNil(t, f.Campaigns)
	// v1 campaigns are taken as stored, ratios are not recomputed.
	assert.Zero(t, (*f.Campaigns)[0].CTR)
	assert.Equal(t, "p", *f.AiSystemPrompt)
	assert.Nil(t, f.NotificationSettings)
}

func TestDecode_LegacyFormats(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"zustand v0 envelope", `{"state":{"campaigns":[{"id":"CAM-1","impressions":200,"clicks":10,"budgetSpent":20}]},"version":0}`},
		{"bare object", `{"campaigns":[{"id":"CAM-1","impressions":200,"clicks":10,"budgetSpent":20}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode([]byte(tt.blob))
			require.NoError(t, err)
			require.NotNil(t, f.Campaigns)
			c := (*f.Campaigns)[0]
			assert.InDelta(t, 5.0, c.CTR, 1e-9)
			assert.InDelta(t, 2.0, c.CPC, 1e-9)
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode([]byte("nope"))
	require.Error(t, err)
	_, err = Decode([]byte(`{"version":2,"state":{}}`))
	require.Error(t, err)
	_, err = Decode([]byte(`{"version":"x"}`))
	require.Error(t, err)
	_, err = Decode([]byte(`{"version":1,"state":{"campaigns":"oops"}}`))
	require.Error(t, err)
}

func TestBackfill_EmptyBlobUsesSeed(t *testing.T) {
	r := Backfill(Fields{})
	assert.False(t, r.IsAuthenticated)
	assert.Nil(t, r.User)
	assert.Equal(t, seed.ConnectedIntegrations(), r.ConnectedIntegrations)
	assert.Equal(t, seed.DefaultSystemPrompt, r.AiSystemPrompt)
	assert.Equal(t, seed.NotificationSettings(), r.NotificationSettings)
	assert.Equal(t, seed.Campaigns(), r.Campaigns)
	assert.Equal(t, seed.Conversations(), r.Conversations)
	assert.Equal(t, "conv-1", r.ActiveConversationID)
	assert.Equal(t, seed.ApiKeys(), r.ApiKeys)
	assert.NotNil(t, r.AiConnections)
	assert.Contains(t, r.Filled, "notificationSettings")
}

func TestBackfill_MissingNotificationSettings(t *testing.T) {
	f, err := Decode([]byte(`{"state":{"isAuthenticated":false,"user":null,"aiSystemPrompt":"x"},"version":0}`))
	require.NoError(t, err)
	r := Backfill(f)
	assert.Equal(t, seed.NotificationSettings(), r.NotificationSettings)
	assert.Equal(t, "x", r.AiSystemPrompt)
}

func TestBackfill_NonArrayIntegrationsReset(t *testing.T) {
	for _, raw := range []string{`{}`, `"github"`, `null`, `42`} {
		r := Backfill(Fields{ConnectedIntegrations: json.RawMessage(raw)})
		assert.Equal(t, seed.ConnectedIntegrations(), r.ConnectedIntegrations, raw)
	}
	r := Backfill(Fields{ConnectedIntegrations: json.RawMessage(`[]`)})
	assert.Empty(t, r.ConnectedIntegrations)
	assert.NotNil(t, r.ConnectedIntegrations)
}

func TestBackfill_AuthRequiresUser(t *testing.T) {
	on := true
	r := Backfill(Fields{IsAuthenticated: &on})
	assert.False(t, r.IsAuthenticated)

	r = Backfill(Fields{IsAuthenticated: &on, User: &model.User{Name: "Ana"}})
	assert.True(t, r.IsAuthenticated)
	assert.Equal(t, "Ana", r.User.Name)
}

func TestBackfill_ActivePointerFromConversations(t *testing.T) {
	convs := []model.ChatConversation{{ID: "c-9", Title: "t"}}
	r := Backfill(Fields{Conversations: &convs})
	assert.Equal(t, "c-9", r.ActiveConversationID)

	empty := ""
	r = Backfill(Fields{Conversations: &convs, ActiveConversationID: &empty})
	assert.Equal(t, "", r.ActiveConversationID)
}
