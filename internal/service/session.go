package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/syncads/internal/errs"
	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/state"
	"github.com/and161185/syncads/internal/validate"
)

// SessionStore is the part of the Store used by SessionService.
type SessionStore interface {
	State() state.State
	Login(info model.UserInfo)
	Logout()
	UpdateUser(p model.UserPatch)
}

// SessionService defines the mock sign-in operations.
type SessionService interface {
	// Login validates the form and opens a session. No credential is checked.
	Login(name, email string) (model.User, error)
	// Logout ends the session and resets per-session data.
	Logout()
	// UpdateProfile merges p into the signed-in user.
	UpdateProfile(p model.UserPatch) (model.User, error)
	// Current returns the signed-in user, if any.
	Current() (model.User, bool)
}

type SessionServiceImpl struct {
	store SessionStore
	log   *zap.Logger
}

// NewSessionService constructs SessionService.
func NewSessionService(store SessionStore, log *zap.Logger) *SessionServiceImpl {
	return &SessionServiceImpl{store: store, log: nopIfNil(log)}
}

func (s *SessionServiceImpl) Login(name, email string) (model.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	fe := validate.FieldErrors{}
	if name == "" {
		fe.Add("name", "name is required")
	}
	checkEmail(fe, email)
	if err := fe.Err(); err != nil {
		return model.User{}, err
	}
	s.store.Login(model.UserInfo{Name: name, Email: email})
	u, _ := s.Current()
	s.log.Info("session opened", zap.String("email", email))
	return u, nil
}

func (s *SessionServiceImpl) Logout() {
	s.store.Logout()
	s.log.Info("session closed")
}

func (s *SessionServiceImpl) UpdateProfile(p model.UserPatch) (model.User, error) {
	if _, ok := s.Current(); !ok {
		return model.User{}, fmt.Errorf("session: %w", errs.ErrNotFound)
	}
	fe := validate.FieldErrors{}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		fe.Add("name", "name is required")
	}
	if p.Email != nil {
		checkEmail(fe, strings.TrimSpace(*p.Email))
	}
	if p.Plan != nil {
		switch *p.Plan {
		case model.PlanFree, model.PlanPro, model.PlanEnterprise:
		default:
			fe.Add("plan", "unknown plan")
		}
	}
	if err := fe.Err(); err != nil {
		return model.User{}, err
	}
	s.store.UpdateUser(p)
	u, _ := s.Current()
	return u, nil
}

func (s *SessionServiceImpl) Current() (model.User, bool) {
	st := s.store.State()
	if !st.IsAuthenticated || st.User == nil {
		return model.User{}, false
	}
	return *st.User, true
}

func checkEmail(fe validate.FieldErrors, email string) {
	switch {
	case email == "":
		fe.Add("email", "email is required")
	case !strings.Contains(email, "@") || strings.ContainsAny(email, " \t"):
		fe.Add("email", "email is invalid")
	}
}
