package store

import (
	"context"

	"github.com/tgienger/fcm/internal/models"
)

// SetProfile writes the users record for p.ID
func (s *Store) SetProfile(ctx context.Context, p models.Profile) error {
	err := s.authorize(p.ID)
	if err == nil {
		err = s.db.SetUser(ctx, p)
	}
	s.metrics.RecordStoreWrite("set_profile", err)
	return models.NewStoreError("set profile", err)
}

// GetProfile reads the users record for id
func (s *Store) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	p, err := s.db.GetUser(ctx, id)
	if err != nil {
		return nil, models.NewStoreError("get profile", err)
	}
	return p, nil
}

// DeleteProfile removes the users record for id. A missing record is not an error.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	err := s.authorize(id)
	if err == nil {
		err = s.db.DeleteUser(ctx, id)
	}
	s.metrics.RecordStoreWrite("delete_profile", err)
	return models.NewStoreError("delete profile", err)
}
