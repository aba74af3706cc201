package wealth

import (
	"context"
	"time"
)

// CategoryService reads category summaries
type CategoryService interface {
	// Summary retrieves income and expense category summaries for an
	// inclusive date range
	Summary(ctx context.Context, startDate, endDate time.Time) (*CategorySummaryResponse, error)
}

// AuthService manages the locally cached bearer token
type AuthService interface {
	// SetToken caches a token obtained by the sign-in flow
	SetToken(token string, expiresAt time.Time) *Session

	// GetSession returns the current session
	GetSession() (*Session, error)

	// ClearSession forgets the cached token
	ClearSession()

	// SaveSession saves session to file
	SaveSession(path string) error

	// LoadSession loads session from file
	LoadSession(path string) error
}
