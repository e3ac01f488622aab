package storage

import "sync"

// Mode is what the chat front end expects from the next message.
const (
	ModeNone = iota
	ModeAwaitingText
	ModeAwaitingFont
	ModeAwaitingBackground
)

type UserSession struct {
	Mode       int
	Processing bool
}

// RenderStateStore tracks per-chat input mode and whether a mutating action is
// in flight. TryStart/Finish serialise actions within one chat.
type RenderStateStore struct {
	sessions map[int64]*UserSession
	mu       sync.RWMutex
}

func NewRenderStateStore() *RenderStateStore {
	return &RenderStateStore{
		sessions: make(map[int64]*UserSession),
	}
}

func (s *RenderStateStore) SetMode(chatID int64, mode int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[chatID]; !ok {
		s.sessions[chatID] = &UserSession{}
	}
	s.sessions[chatID].Mode = mode
}

func (s *RenderStateStore) GetMode(chatID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[chatID]; ok {
		return sess.Mode
	}
	return ModeNone
}

func (s *RenderStateStore) TryStart(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		s.sessions[chatID] = &UserSession{Processing: true}
		return true
	}

	if sess.Processing {
		return false
	}

	sess.Processing = true
	return true
}

// Finish clears the in-flight flag but keeps the mode.
func (s *RenderStateStore) Finish(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[chatID]; ok {
		sess.Processing = false
	}
}

// Reset returns the chat to ModeNone. An action in flight stays guarded
// until its Finish.
func (s *RenderStateStore) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		return
	}
	if !sess.Processing {
		delete(s.sessions, chatID)
		return
	}
	sess.Mode = ModeNone
}
