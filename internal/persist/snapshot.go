// Package persist defines the on-slot snapshot format of the store:
// a versioned envelope, the legacy-format migration and the back-fill
// of fields missing from older blobs.
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/seed"
)

// Version is the current snapshot format.
const Version = 1

// DefaultKey is the namespace key of the slot.
const DefaultKey = "marketing-ai-storage"

// Scope selects which top-level fields are written to the slot.
type Scope string

const (
	// ScopeSession persists session, integrations and settings only.
	ScopeSession Scope = "session"
	// ScopeFull also persists campaigns, conversations and API keys.
	ScopeFull Scope = "full"
)

// ParseScope maps a config value to a Scope; unknown values fall back to ScopeSession.
func ParseScope(s string) Scope {
	if Scope(s) == ScopeFull {
		return ScopeFull
	}
	return ScopeSession
}

// Fields is the persisted subset of the store. After Decode a nil pointer
// means the field was absent from the blob.
type Fields struct {
	IsAuthenticated       *bool                       `json:"isAuthenticated,omitempty"`
	User                  *model.User                 `json:"user"`
	ConnectedIntegrations json.RawMessage             `json:"connectedIntegrations,omitempty"`
	AiSystemPrompt        *string                     `json:"aiSystemPrompt,omitempty"`
	IsTwoFactorEnabled    *bool                       `json:"isTwoFactorEnabled,omitempty"`
	NotificationSettings  *model.NotificationSettings `json:"notificationSettings,omitempty"`
	AiConnections         *[]model.AiConnection       `json:"aiConnections,omitempty"`
	Campaigns             *[]model.Campaign           `json:"campaigns,omitempty"`
	Conversations         *[]model.ChatConversation   `json:"conversations,omitempty"`
	ActiveConversationID  *string                     `json:"activeConversationId,omitempty"`
	ApiKeys               *[]model.ApiKey             `json:"apiKeys,omitempty"`
}

// Snapshot is the envelope written to the slot.
type Snapshot struct {
	Version int    `json:"version"`
	State   Fields `json:"state"`
}

// Restored is a fully back-filled view of Fields, ready to seed a store.
type Restored struct {
	IsAuthenticated       bool
	User                  *model.User
	ConnectedIntegrations []model.IntegrationID
	AiSystemPrompt        string
	IsTwoFactorEnabled    bool
	NotificationSettings  model.NotificationSettings
	AiConnections         []model.AiConnection
	Campaigns             []model.Campaign
	Conversations         []model.ChatConversation
	ActiveConversationID  string
	ApiKeys               []model.ApiKey

	// Filled lists the fields that were missing and took seed defaults.
	Filled []string
}

// Encode wraps fields in the current envelope.
func Encode(f Fields) ([]byte, error) {
	return json.Marshal(Snapshot{Version: Version, State: f})
}

// Decode parses a slot blob of any known format and migrates it to Version.
// Accepted inputs: the current envelope, the version-0 envelope written by the
// first release ({"state":{...},"version":0}) and a bare field object.
func Decode(data []byte) (Fields, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Fields{}, fmt.Errorf("decode snapshot: %w", err)
	}

	version := 0
	if raw, ok := probe["version"]; ok {
		if err := json.Unmarshal(raw, &version); err != nil {
			return Fields{}, fmt.Errorf("decode snapshot version: %w", err)
		}
	}
	if version > Version {
		return Fields{}, fmt.Errorf("decode snapshot: unsupported version %d", version)
	}

	body := data
	if raw, ok := probe["state"]; ok {
		body = raw
	}
	var f Fields
	if err := json.Unmarshal(body, &f); err != nil {
		return Fields{}, fmt.Errorf("decode snapshot state: %w", err)
	}

	if version < 1 {
		migrateV0(&f)
	}
	return f, nil
}

// migrateV0 derives ratios that version-0 campaigns did not carry.
func migrateV0(f *Fields) {
	if f.Campaigns == nil {
		return
	}
	list := *f.Campaigns
	for i := range list {
		c := &list[i]
		if c.CTR == 0 && c.Impressions > 0 {
			c.CTR = float64(c.Clicks) / float64(c.Impressions) * 100
		}
		if c.CPC == 0 && c.Clicks > 0 {
			c.CPC = c.BudgetSpent / float64(c.Clicks)
		}
	}
}

// Backfill resolves absent fields to seed defaults. It must run before any
// consumer reads the restored state.
func Backfill(f Fields) Restored {
	var r Restored
	fill := func(name string) { r.Filled = append(r.Filled, name) }

	if f.IsAuthenticated != nil {
		r.IsAuthenticated = *f.IsAuthenticated
	}
	if f.User != nil {
		u := *f.User
		r.User = &u
	}
	// A session without a user is not a session.
	if r.User == nil {
		r.IsAuthenticated = false
	}

	var ids []model.IntegrationID
	if len(f.ConnectedIntegrations) == 0 || json.Unmarshal(f.ConnectedIntegrations, &ids) != nil || ids == nil {
		ids = seed.ConnectedIntegrations()
		fill("connectedIntegrations")
	}
	r.ConnectedIntegrations = ids

	if f.AiSystemPrompt != nil {
		r.AiSystemPrompt = *f.AiSystemPrompt
	} else {
		r.AiSystemPrompt = seed.DefaultSystemPrompt
		fill("aiSystemPrompt")
	}

	if f.IsTwoFactorEnabled != nil {
		r.IsTwoFactorEnabled = *f.IsTwoFactorEnabled
	}

	if f.NotificationSettings != nil {
		r.NotificationSettings = *f.NotificationSettings
	} else {
		r.NotificationSettings = seed.NotificationSettings()
		fill("notificationSettings")
	}

	if f.AiConnections != nil {
		r.AiConnections = *f.AiConnections
	} else {
		r.AiConnections = []model.AiConnection{}
		fill("aiConnections")
	}

	if f.Campaigns != nil {
		r.Campaigns = *f.Campaigns
	} else {
		r.Campaigns = seed.Campaigns()
		fill("campaigns")
	}

	if f.Conversations != nil {
		r.Conversations = *f.Conversations
	} else {
		r.Conversations = seed.Conversations()
		fill("conversations")
	}

	switch {
	case f.ActiveConversationID != nil:
		r.ActiveConversationID = *f.ActiveConversationID
	case len(r.Conversations) > 0:
		r.ActiveConversationID = r.Conversations[0].ID
		fill("activeConversationId")
	}

	if f.ApiKeys != nil {
		r.ApiKeys = *f.ApiKeys
	} else {
		r.ApiKeys = seed.ApiKeys()
		fill("apiKeys")
	}
	return r
}
