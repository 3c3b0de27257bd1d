package certificates

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"fenix-certificates/internal/domain"
	"fenix-certificates/internal/pkg/validation"
	"fenix-certificates/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultKey is the well-known key the history list is saved under.
const DefaultKey = "fenix_certs"

// Store is the local history of issued certificates, newest first. Every
// mutation rewrites the whole list to the backend.
type Store struct {
	Backend storage.Backend
	Key     string
	Now     func() time.Time
	NewID   func() string
	Log     zerolog.Logger

	mu    sync.Mutex
	certs []domain.Certificate
}

// NewStore returns an empty store; call Load once before serving.
func NewStore(backend storage.Backend, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		Backend: backend,
		Key:     key,
		Now:     time.Now,
		NewID:   func() string { return uuid.New().String() },
		Log:     log.Logger,
	}
}

// Load replaces the in-memory list with the persisted one. A missing,
// unreadable or corrupt snapshot leaves the store empty; it never fails.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.certs = nil

	payload, err := s.Backend.Load(ctx, s.Key)
	if err != nil {
		if !errors.Is(err, storage.ErrNoSnapshot) {
			s.Log.Warn().Err(err).Str("key", s.Key).Msg("Failed to read certificate history, starting empty")
		}
		return
	}
	var certs []domain.Certificate
	if err := json.Unmarshal(payload, &certs); err != nil {
		s.Log.Warn().Err(err).Str("key", s.Key).Int("bytes", len(payload)).Msg("Failed to parse certificate history, discarding")
		return
	}
	kept := certs[:0]
	for i, c := range certs {
		if !validRecord(c) {
			s.Log.Warn().Str("key", s.Key).Int("index", i).Str("id", c.ID).Str("code", c.Code).Msg("Dropping invalid certificate record")
			continue
		}
		kept = append(kept, c)
	}
	s.certs = kept
	s.Log.Info().Str("key", s.Key).Int("count", len(kept)).Int("dropped", len(certs)-len(kept)).Msg("Certificate history loaded")
}

// validRecord reports whether a persisted record can be listed and rendered.
func validRecord(c domain.Certificate) bool {
	switch c.Status {
	case domain.CertificateStatusActive, domain.CertificateStatusRedeemed:
	default:
		return false
	}
	return c.ID != "" &&
		c.Code != "" &&
		validation.IsValidAmount(c.Amount) &&
		validation.IsValidISODate(c.ExpiryDate)
}

// Issue creates an active certificate from d and prepends it. If the
// durable write fails the list is left as it was and the certificate is
// still returned.
func (s *Store) Issue(ctx context.Context, d domain.Draft) (domain.Certificate, error) {
	if d.Code == "" {
		return domain.Certificate{}, ErrMissingCode
	}
	if !validation.IsValidCode(d.Code) {
		return domain.Certificate{}, ErrInvalidCode
	}
	if !validation.IsValidAmount(d.Amount) {
		return domain.Certificate{}, ErrInvalidAmount
	}
	if d.ExpiryDate != "" && !validation.IsValidISODate(d.ExpiryDate) {
		return domain.Certificate{}, ErrInvalidExpiry
	}
	if !validation.IsValidName(d.RecipientName) || !validation.IsValidName(d.ManagerName) {
		return domain.Certificate{}, ErrNameTooLong
	}

	now := s.Now().UTC().Truncate(time.Millisecond)
	cert := domain.Certificate{
		ID:            s.NewID(),
		Code:          d.Code,
		Amount:        d.Amount,
		RecipientName: d.RecipientName,
		ManagerName:   d.ManagerName,
		CreatedAt:     now,
		ExpiryDate:    d.ExpiryDate,
		Status:        domain.CertificateStatusActive,
	}
	if cert.ExpiryDate == "" {
		cert.ExpiryDate = domain.DefaultExpiry(now)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Certificate, 0, len(s.certs)+1)
	next = append(next, cert)
	next = append(next, s.certs...)
	if err := s.persist(ctx, next); err != nil {
		s.Log.Error().Err(err).Str("code", cert.Code).Msg("Failed to persist certificate history")
		return cert, nil
	}
	s.certs = next
	return cert, nil
}

// List returns a copy of the history, newest first.
func (s *Store) List() []domain.Certificate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Certificate, len(s.certs))
	copy(out, s.certs)
	return out
}

// Get returns the certificate with the given id.
func (s *Store) Get(id string) (domain.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.certs {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Certificate{}, ErrNotFound
}

// Clear empties the history and its durable copy. Callers must confirm with
// the operator first. If the backend cannot be cleared the list is kept.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Backend.Delete(ctx, s.Key); err != nil {
		s.Log.Error().Err(err).Str("key", s.Key).Msg("Failed to clear certificate history")
		return
	}
	s.certs = nil
}

func (s *Store) persist(ctx context.Context, certs []domain.Certificate) error {
	b, err := json.Marshal(certs)
	if err != nil {
		return err
	}
	return s.Backend.Save(ctx, s.Key, b)
}
