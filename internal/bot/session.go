package bot

import "sync"

// State identifies where in a multi-step flow a session currently is.
type State int

const (
	// AnyState in a route matches regardless of the session state.
	AnyState State = -1

	// StateIdle is the resting state of both machines.
	StateIdle State = iota

	// Admin: add product.
	StateProductName
	StateProductPrice

	// Admin: add seller.
	StateSellerName
	StateSellerRegion
	StateSellerPhone
	StateSellerPassword

	// Admin: issue stock to a pre-selected seller.
	StateIssueProductName
	StateIssueNewPrice
	StateIssueQuantity

	// Seller: password login.
	StateAuthPassword

	// Seller: record a sale.
	StateSaleProductName
	StateSaleQuantity
)

// Session is the transient per-chat conversation state. Scratch holds the
// values collected across a multi-step flow and is cleared when the flow
// terminates; the authenticated seller identity lives in its own fields so
// finishing a flow does not log the seller out. Nothing here survives a
// process restart.
type Session struct {
	mu sync.Mutex

	State   State
	Scratch map[string]string

	SellerID   int
	SellerName string
}

func newSession() *Session {
	return &Session{State: StateIdle, Scratch: make(map[string]string)}
}

// Authenticated reports whether a seller login is attached to the session.
func (s *Session) Authenticated() bool {
	return s.SellerID != 0
}

// Set stores one scratch value.
func (s *Session) Set(key, value string) {
	s.Scratch[key] = value
}

// Get reads one scratch value.
func (s *Session) Get(key string) string {
	return s.Scratch[key]
}

// EndFlow returns the session to idle and drops the flow scratch data.
// The seller login, if any, stays.
func (s *Session) EndFlow() {
	s.State = StateIdle
	s.Scratch = make(map[string]string)
}

// Reset clears everything including the seller login.
func (s *Session) Reset() {
	s.EndFlow()
	s.SellerID = 0
	s.SellerName = ""
}

// Sessions tracks one Session per chat.
type Sessions struct {
	mu sync.Mutex
	m  map[int64]*Session
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{m: make(map[int64]*Session)}
}

// Get returns the session for a chat, creating it on first contact.
func (s *Sessions) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	ses, ok := s.m[chatID]
	if !ok {
		ses = newSession()
		s.m[chatID] = ses
	}
	return ses
}
