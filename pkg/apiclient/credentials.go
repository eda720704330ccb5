package apiclient

import "sync"

// Credentials is everything the client persists about a session: the
// token pair plus the cached user and tenant for UI restore. The four
// fields live and die together; Clear wipes them in one step.
type Credentials struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	User         *User   `json:"user,omitempty"`
	Tenant       *Tenant `json:"tenant,omitempty"`
}

// CredentialStore persists session credentials between calls.
// Implementations must be safe for concurrent use; the client reads
// and writes them from whatever goroutine issues a request.
type CredentialStore interface {
	Load() (Credentials, error)
	Save(Credentials) error
	Clear() error
}

// MemoryCredentials is a CredentialStore held in process memory. It is
// the default store and the right one for tests and short-lived tools.
type MemoryCredentials struct {
	mu    sync.Mutex
	creds Credentials
}

func NewMemoryCredentials() *MemoryCredentials { return &MemoryCredentials{} }

func (s *MemoryCredentials) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds, nil
}

func (s *MemoryCredentials) Save(c Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = c
	return nil
}

func (s *MemoryCredentials) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	return nil
}
