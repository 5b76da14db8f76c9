// Package state implements the Store: the single container of mutable
// application data. Every change goes through a named action that replaces
// the state under a lock, persists the configured subset to a slot and then
// notifies subscribers.
package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/syncads/internal/errs"
	"github.com/and161185/syncads/internal/persist"
	"github.com/and161185/syncads/internal/repository"
)

const defaultSaveTimeout = 5 * time.Second

// errNoop aborts an update that would not change anything.
var errNoop = errors.New("state: no change")

// Options configures a Store. Slot may be nil for a memory-only store.
type Options struct {
	Slot        repository.SlotRepository
	Key         string
	Scope       persist.Scope
	Logger      *zap.Logger
	Now         func() time.Time
	SaveTimeout time.Duration
}

// Store holds State and serializes every action.
type Store struct {
	mu        sync.Mutex
	st        State
	slot      repository.SlotRepository
	key       string
	scope     persist.Scope
	memOnly   bool
	lastSaved []byte

	subMu   sync.Mutex
	subs    map[uint64]func(State)
	nextSub uint64

	log         *zap.Logger
	now         func() time.Time
	saveTimeout time.Duration
}

// New builds a Store and rehydrates it from the slot. Storage failures never
// fail construction: the store starts from seed data in memory-only mode.
func New(ctx context.Context, opts Options) *Store {
	s := &Store{
		slot:        opts.Slot,
		key:         opts.Key,
		scope:       opts.Scope,
		log:         opts.Logger,
		now:         opts.Now,
		saveTimeout: opts.SaveTimeout,
		subs:        map[uint64]func(State){},
	}
	if s.key == "" {
		s.key = persist.DefaultKey
	}
	if s.scope == "" {
		s.scope = persist.ScopeSession
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.saveTimeout <= 0 {
		s.saveTimeout = defaultSaveTimeout
	}
	s.st = Initial()
	if s.slot == nil {
		s.memOnly = true
		return s
	}
	s.rehydrate(ctx)
	return s
}

func (s *Store) rehydrate(ctx context.Context) {
	data, err := s.slot.Load(ctx, s.key)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return
	case err != nil:
		s.degrade("load", err)
		return
	}
	f, err := persist.Decode(data)
	if err != nil {
		s.degrade("decode", err)
		return
	}
	r := persist.Backfill(f)
	if len(r.Filled) > 0 {
		s.log.Debug("state backfilled", zap.Strings("fields", r.Filled))
	}
	s.st = fromRestored(r)
	s.lastSaved, _ = s.encode(s.st)
}

func fromRestored(r persist.Restored) State {
	return State{
		IsAuthenticated:       r.IsAuthenticated,
		User:                  r.User,
		ConnectedIntegrations: r.ConnectedIntegrations,
		Conversations:         r.Conversations,
		ActiveConversationID:  r.ActiveConversationID,
		Campaigns:             r.Campaigns,
		ApiKeys:               r.ApiKeys,
		AiConnections:         r.AiConnections,
		AiSystemPrompt:        r.AiSystemPrompt,
		IsTwoFactorEnabled:    r.IsTwoFactorEnabled,
		NotificationSettings:  r.NotificationSettings,
	}
}

func (s *Store) degrade(op string, err error) {
	s.memOnly = true
	s.log.Warn("state storage unavailable, continuing in memory",
		zap.String("op", op), zap.String("key", s.key), zap.Error(err))
}

// MemoryOnly reports whether the store has stopped writing to its slot.
func (s *Store) MemoryOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memOnly
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

// Subscribe registers fn to receive the new state after every change.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// subscribeAt hands the current state to seed and registers fn under the
// state lock, so every later commit reaches fn.
func (s *Store) subscribeAt(seed func(State), fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	seed(s.st.Clone())
	return s.Subscribe(fn)
}

// update applies fn to a copy of the state. An error from fn leaves the
// state untouched and skips persistence and notification.
func (s *Store) update(fn func(*State) error) error {
	s.mu.Lock()
	next := s.st.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	next.rev = s.st.rev + 1
	s.st = next
	s.persistLocked()
	snap := next.Clone()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

func (s *Store) notify(st State) {
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(st.Clone())
	}
}

func (s *Store) persistLocked() {
	if s.memOnly {
		return
	}
	data, err := s.encode(s.st)
	if err != nil {
		s.degrade("encode", err)
		return
	}
	if bytes.Equal(data, s.lastSaved) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()
	if err := s.slot.Save(ctx, s.key, data); err != nil {
		s.degrade("save", err)
		return
	}
	s.lastSaved = data
}

// Flush writes the current state even when it matches the last save. A store
// that has degraded to memory-only reports errs.ErrStorage; one built without
// a slot has nothing to flush.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slot == nil {
		return nil
	}
	if s.memOnly {
		return fmt.Errorf("%w: store is memory-only", errs.ErrStorage)
	}
	data, err := s.encode(s.st)
	if err != nil {
		s.degrade("encode", err)
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	if err := s.slot.Save(ctx, s.key, data); err != nil {
		s.degrade("save", err)
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	s.lastSaved = data
	return nil
}

func (s *Store) encode(st State) ([]byte, error) {
	data, err := persist.Encode(Fields(st, s.scope))
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// Fields selects the persisted subset of st for scope.
func Fields(st State, scope persist.Scope) persist.Fields {
	ids, _ := json.Marshal(nonNil(st.ConnectedIntegrations))
	f := persist.Fields{
		IsAuthenticated:       ptr(st.IsAuthenticated),
		User:                  st.User,
		ConnectedIntegrations: ids,
		AiSystemPrompt:        ptr(st.AiSystemPrompt),
		IsTwoFactorEnabled:    ptr(st.IsTwoFactorEnabled),
		NotificationSettings:  ptr(st.NotificationSettings),
		AiConnections:         ptr(nonNil(st.AiConnections)),
	}
	if scope == persist.ScopeFull {
		f.Campaigns = ptr(nonNil(st.Campaigns))
		f.Conversations = ptr(nonNil(st.Conversations))
		f.ActiveConversationID = ptr(st.ActiveConversationID)
		f.ApiKeys = ptr(nonNil(st.ApiKeys))
	}
	return f
}

func ptr[T any](v T) *T { return &v }

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
