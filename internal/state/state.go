package state

import (
	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/seed"
)

// State is a value snapshot of everything the Store holds. Collections are
// never nil on a State produced by the Store.
type State struct {
	IsAuthenticated bool        `json:"isAuthenticated"`
	User            *model.User `json:"user"`
	SearchTerm      string      `json:"searchTerm"`

	ConnectedIntegrations []model.IntegrationID `json:"connectedIntegrations"`

	Conversations        []model.ChatConversation `json:"conversations"`
	ActiveConversationID string                   `json:"activeConversationId"`
	IsAssistantTyping    bool                     `json:"isAssistantTyping"`

	Campaigns []model.Campaign `json:"campaigns"`
	ApiKeys   []model.ApiKey   `json:"apiKeys"`

	AiConnections        []model.AiConnection       `json:"aiConnections"`
	AiSystemPrompt       string                     `json:"aiSystemPrompt"`
	IsTwoFactorEnabled   bool                       `json:"isTwoFactorEnabled"`
	NotificationSettings model.NotificationSettings `json:"notificationSettings"`

	rev uint64
}

// Revision counts committed updates since the store was built. Snapshots
// delivered to subscribers may arrive out of order under concurrent updates;
// the higher revision is the newer one.
func (s State) Revision() uint64 { return s.rev }

// Initial returns the state of a fresh install.
func Initial() State {
	return State{
		ConnectedIntegrations: seed.ConnectedIntegrations(),
		Conversations:         seed.Conversations(),
		ActiveConversationID:  seed.ActiveConversationID(),
		Campaigns:             seed.Campaigns(),
		ApiKeys:               seed.ApiKeys(),
		AiConnections:         []model.AiConnection{},
		AiSystemPrompt:        seed.DefaultSystemPrompt,
		NotificationSettings:  seed.NotificationSettings(),
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	out.ConnectedIntegrations = append(make([]model.IntegrationID, 0, len(s.ConnectedIntegrations)), s.ConnectedIntegrations...)

	out.Conversations = make([]model.ChatConversation, len(s.Conversations))
	for i, c := range s.Conversations {
		out.Conversations[i] = c.Clone()
	}
	out.Campaigns = make([]model.Campaign, len(s.Campaigns))
	for i, c := range s.Campaigns {
		out.Campaigns[i] = c.Clone()
	}
	out.ApiKeys = make([]model.ApiKey, len(s.ApiKeys))
	for i, k := range s.ApiKeys {
		out.ApiKeys[i] = cloneKey(k)
	}
	out.AiConnections = append(make([]model.AiConnection, 0, len(s.AiConnections)), s.AiConnections...)
	return out
}

// IsConnected reports whether id is in the connected set.
func (s State) IsConnected(id model.IntegrationID) bool {
	for _, v := range s.ConnectedIntegrations {
		if v == id {
			return true
		}
	}
	return false
}

// Campaign finds a campaign by id.
func (s State) Campaign(id string) (model.Campaign, bool) {
	for _, c := range s.Campaigns {
		if c.ID == id {
			return c, true
		}
	}
	return model.Campaign{}, false
}

// Conversation finds a conversation by id.
func (s State) Conversation(id string) (model.ChatConversation, bool) {
	for _, c := range s.Conversations {
		if c.ID == id {
			return c, true
		}
	}
	return model.ChatConversation{}, false
}

// ActiveConversation resolves the active pointer. It reports false when the
// pointer is empty or names a conversation that no longer exists.
func (s State) ActiveConversation() (model.ChatConversation, bool) {
	if s.ActiveConversationID == "" {
		return model.ChatConversation{}, false
	}
	return s.Conversation(s.ActiveConversationID)
}

func cloneKey(k model.ApiKey) model.ApiKey {
	out := k
	out.Hash = append([]byte(nil), k.Hash...)
	out.Salt = append([]byte(nil), k.Salt...)
	if k.LastUsed != nil {
		t := *k.LastUsed
		out.LastUsed = &t
	}
	return out
}
