package traveler

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RegisterInput is the data needed to register a traveler.
type RegisterInput struct {
	Email       string
	DisplayName string
	HomeCountry string
}

// Service registers and looks up travelers.
type Service struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new traveler service.
func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// Register creates a traveler. Emails are compared case-insensitively.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Traveler, error) {
	t := &Traveler{
		ID:          IDPrefix + uuid.NewString(),
		Email:       NormalizeEmail(in.Email),
		DisplayName: strings.TrimSpace(in.DisplayName),
		HomeCountry: strings.ToUpper(strings.TrimSpace(in.HomeCountry)),
		CreatedAt:   s.now().UTC(),
	}

	if err := s.store.Insert(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info().Str("traveler_id", t.ID).Msg("traveler registered")
	return t, nil
}

// Lookup finds a traveler by email.
func (s *Service) Lookup(ctx context.Context, email string) (*Traveler, error) {
	return s.store.FindByEmail(ctx, NormalizeEmail(email))
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
