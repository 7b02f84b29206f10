package services

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"encuestas-local/internal/models"
	"encuestas-local/internal/store"
)

// AssignmentStore is the read-only view of the document store the
// session manager needs to resolve assignments.
type AssignmentStore interface {
	Get(id string) *models.Survey
	First() *models.Survey
	Count() int
}

// DemoUsers builds the two fixed portal identities. Passwords are
// bcrypt-hashed at startup; this is demo data, not account management.
func DemoUsers() []*models.DemoUser {
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	if err != nil {
		// Only reachable on an invalid cost constant.
		panic(err)
	}
	return []*models.DemoUser{
		{ID: "usuario-demo-1", Name: "María Rivera", Email: "maria.rivera@empresa.com", PassHash: hash},
		{ID: "usuario-demo-2", Name: "Carlos Herrera", Email: "carlos.herrera@empresa.com", PassHash: hash},
	}
}

// SessionService owns the demo identities, the login/logout flow and
// the assignment invariant: a resolved assignment always points at an
// existing document, repaired to the store's first document (or cleared)
// whenever the collection changes.
type SessionService struct {
	slots    store.SlotStorage
	docs     AssignmentStore
	users    []*models.DemoUser
	current  *models.Session
	tokenTTL time.Duration
}

func NewSessionService(slots store.SlotStorage, docs AssignmentStore) *SessionService {
	return &SessionService{
		slots:    slots,
		docs:     docs,
		users:    DemoUsers(),
		tokenTTL: 24 * time.Hour,
	}
}

// Login matches a demo identity by case-insensitive email and password.
// On success the assignment is resolved and the session persisted to
// the session slot.
func (s *SessionService) Login(email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	var user *models.DemoUser
	for _, u := range s.users {
		if u.Email == email {
			user = u
			break
		}
	}
	if user == nil || bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)) != nil {
		return nil, NewUnauthorizedError("Credenciales incorrectas. Intenta nuevamente.")
	}

	s.ensureAssignment(user)
	token, err := SignToken(user.ID, user.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	s.current = &models.Session{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		AssignedSurveyID: user.AssignedSurveyID,
		Token:            token,
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	out := *s.current
	return &out, nil
}

// Restore rehydrates the session from the session slot. A missing slot,
// unreadable JSON, an unknown identity or a bad token all yield a
// logged-out state, never an error surfaced to the user.
func (s *SessionService) Restore() *models.Session {
	raw, ok, err := s.slots.Get(store.SessionSlot)
	if err != nil || !ok {
		return nil
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		log.Printf("session: stored session is unreadable: %v", err)
		return nil
	}
	if sess.Email == "" {
		return nil
	}
	var user *models.DemoUser
	for _, u := range s.users {
		if u.Email == sess.Email {
			user = u
			break
		}
	}
	if user == nil {
		return nil
	}
	if sess.Token != "" {
		if _, err := ParseToken(sess.Token); err != nil {
			log.Printf("session: discarding session with invalid token: %v", err)
			_ = s.slots.Delete(store.SessionSlot)
			return nil
		}
	}

	user.AssignedSurveyID = sess.AssignedSurveyID
	s.ensureAssignment(user)
	sess.AssignedSurveyID = user.AssignedSurveyID
	s.current = &sess
	out := sess
	return &out
}

// Current returns the logged-in session, or nil.
func (s *SessionService) Current() *models.Session {
	if s.current == nil {
		return nil
	}
	out := *s.current
	return &out
}

// Logout clears the in-memory session and deletes the session slot.
func (s *SessionService) Logout() error {
	s.current = nil
	return s.slots.Delete(store.SessionSlot)
}

// CurrentAssignment resolves the logged-in user's assigned survey, or
// nil when logged out or the store is empty.
func (s *SessionService) CurrentAssignment() *models.Survey {
	if s.current == nil {
		return nil
	}
	for _, u := range s.users {
		if u.ID == s.current.ID {
			s.ensureAssignment(u)
			s.current.AssignedSurveyID = u.AssignedSurveyID
			return s.docs.Get(u.AssignedSurveyID)
		}
	}
	return nil
}

// Resync re-resolves every assignment; the document store calls this
// through its subscription after each mutation so no pointer dangles.
func (s *SessionService) Resync() {
	for _, u := range s.users {
		s.ensureAssignment(u)
	}
	if s.current == nil {
		return
	}
	for _, u := range s.users {
		if u.ID == s.current.ID {
			s.current.AssignedSurveyID = u.AssignedSurveyID
			if err := s.persist(); err != nil {
				log.Printf("session: persist after resync: %v", err)
			}
			return
		}
	}
}

func (s *SessionService) ensureAssignment(u *models.DemoUser) {
	if s.docs.Count() == 0 {
		u.AssignedSurveyID = ""
		return
	}
	if u.AssignedSurveyID == "" || s.docs.Get(u.AssignedSurveyID) == nil {
		u.AssignedSurveyID = s.docs.First().ID
	}
}

func (s *SessionService) persist() error {
	if s.current == nil {
		return nil
	}
	raw, err := json.Marshal(s.current)
	if err != nil {
		return err
	}
	return s.slots.Put(store.SessionSlot, string(raw))
}
