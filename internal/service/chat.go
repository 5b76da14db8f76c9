package service

import (
	"context"
	"hash/fnv"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/syncads/internal/delay"
	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/state"
	"github.com/and161185/syncads/internal/validate"
)

// ChatStore is the part of the Store used by ChatService.
type ChatStore interface {
	State() state.State
	AddMessage(convID string, msg model.ChatMessage) (model.ChatMessage, error)
	SetAssistantTyping(on bool)
	NewConversation(title string) model.ChatConversation
	DeleteConversation(id string) bool
	SetActiveConversationID(id string)
}

// Responder produces the assistant reply to text under the system prompt.
type Responder func(systemPrompt, text string) string

var cannedReplies = []string{
	"Boa pergunta! Analisando suas campanhas ativas, recomendo concentrar o orçamento nos anúncios com maior CTR.",
	"Sugiro testar duas variações de criativo e comparar o CPC após sete dias.",
	"Com base nos dados recentes, o público de 25-34 anos está convertendo melhor. Vale ajustar a segmentação.",
	"Considere pausar os anúncios com CPC acima da média e realocar o orçamento para o remarketing.",
}

// CannedResponder picks a fixed reply keyed by the message text.
func CannedResponder(_ string, text string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	return cannedReplies[h.Sum32()%uint32(len(cannedReplies))]
}

// ChatService simulates the AI assistant.
type ChatService interface {
	// Send posts text to convID and waits for the assistant reply.
	Send(ctx context.Context, convID, text string) (model.ChatMessage, error)
	// Open makes id the active conversation.
	Open(id string) (model.ChatConversation, error)
	// New starts an empty conversation and activates it.
	New(title string) model.ChatConversation
	// Delete removes conversation id and reports whether it existed.
	Delete(id string) bool
}

type ChatServiceImpl struct {
	store  ChatStore
	reply  Responder
	delays Delays
	log    *zap.Logger
}

// NewChatService constructs ChatService. A nil reply uses CannedResponder.
func NewChatService(store ChatStore, reply Responder, d Delays, log *zap.Logger) *ChatServiceImpl {
	if reply == nil {
		reply = CannedResponder
	}
	return &ChatServiceImpl{store: store, reply: reply, delays: d, log: nopIfNil(log)}
}

// Send appends the user message to convID (the active conversation when
// empty), shows the typing indicator for a pseudo-random delay and appends
// the assistant reply. The indicator is cleared even when ctx is cancelled;
// in that case the user message stays and no reply is added.
func (s *ChatServiceImpl) Send(ctx context.Context, convID, text string) (model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		fe := validate.FieldErrors{}
		fe.Add("text", "message is empty")
		return model.ChatMessage{}, fe
	}
	st := s.store.State()
	if convID == "" {
		convID = st.ActiveConversationID
	}
	if _, err := s.store.AddMessage(convID, model.ChatMessage{Role: model.RoleUser, Content: text}); err != nil {
		return model.ChatMessage{}, err
	}

	s.store.SetAssistantTyping(true)
	defer s.store.SetAssistantTyping(false)

	if err := delay.Wait(ctx, delay.Between(s.delays.TypingMin, s.delays.TypingMax)); err != nil {
		s.log.Debug("assistant reply cancelled", zap.String("conversation", convID), zap.Error(err))
		return model.ChatMessage{}, err
	}
	msg, err := s.store.AddMessage(convID, model.ChatMessage{
		Role:    model.RoleAssistant,
		Content: s.reply(st.AiSystemPrompt, text),
	})
	if err != nil {
		// The conversation was deleted while the assistant was typing.
		return model.ChatMessage{}, err
	}
	return msg, nil
}

// Open makes id the active conversation.
func (s *ChatServiceImpl) Open(id string) (model.ChatConversation, error) {
	c, ok := s.store.State().Conversation(id)
	if !ok {
		return model.ChatConversation{}, notFound("conversation", id)
	}
	s.store.SetActiveConversationID(id)
	return c, nil
}

// New starts an empty conversation and activates it.
func (s *ChatServiceImpl) New(title string) model.ChatConversation {
	return s.store.NewConversation(title)
}

// Delete removes conversation id.
func (s *ChatServiceImpl) Delete(id string) bool {
	return s.store.DeleteConversation(id)
}
