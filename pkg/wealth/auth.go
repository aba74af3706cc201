package wealth

import (
	"time"

	"github.com/eshaffer321/wealth-go/internal/auth"
	internalTypes "github.com/eshaffer321/wealth-go/internal/types"
)

// authService implements the AuthService interface
type authService struct {
	client *Client
	store  *auth.Store
}

// newAuthService creates a new auth service
func newAuthService(client *Client) *authService {
	return &authService{
		client: client,
		store:  client.store,
	}
}

// convertSession converts internal types.Session to wealth.Session
func (a *authService) convertSession(s *internalTypes.Session) *Session {
	if s == nil {
		return nil
	}
	return &Session{
		Token:      s.Token,
		ExpiresAt:  s.ExpiresAt,
		DeviceUUID: s.DeviceUUID,
	}
}

// apply pushes the store's session into the client and transport
func (a *authService) apply(session *internalTypes.Session) {
	a.client.session = a.convertSession(session)
	a.client.transport.SetSession(session)
}

// SetToken caches a token and saves it if a session file is configured
func (a *authService) SetToken(token string, expiresAt time.Time) *Session {
	session := a.store.SetToken(token, expiresAt)
	a.apply(session)

	if a.client.options.SessionFile != "" {
		_ = a.store.SaveSession(a.client.options.SessionFile)
	}

	return a.convertSession(session)
}

// GetSession returns the current session
func (a *authService) GetSession() (*Session, error) {
	session, err := a.store.GetSession()
	if err != nil {
		return nil, err
	}
	return a.convertSession(session), nil
}

// ClearSession forgets the cached token
func (a *authService) ClearSession() {
	a.store.Clear()
	a.apply(nil)
}

// SaveSession saves session to file
func (a *authService) SaveSession(path string) error {
	return a.store.SaveSession(path)
}

// LoadSession loads session from file
func (a *authService) LoadSession(path string) error {
	if err := a.store.LoadSession(path); err != nil {
		return err
	}

	session, err := a.store.GetSession()
	if err != nil {
		return err
	}

	a.apply(session)
	return nil
}
