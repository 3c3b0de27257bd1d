package managers

import (
	"context"
	"errors"

	"fenix-certificates/internal/keycrm"
)

// PageSize is how many users are requested per page.
const PageSize = 50

const statusActive = "active"

// ErrNotConfigured mirrors the CRM configuration error for the directory.
var ErrNotConfigured = errors.New("KEYCRM_API_KEY is not configured")

// UserLister is the part of the KeyCRM client the directory uses.
type UserLister interface {
	ListUsers(ctx context.Context, page, limit int) (*keycrm.Page[keycrm.User], error)
}

// Manager is one selectable issuing staff member.
type Manager struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"full_name"`
}

// Directory lists active CRM users. Nothing is cached: every call walks
// all pages again.
type Directory struct {
	Client UserLister
}

// ListActive walks /users until the last page reported by the first page.
func (d *Directory) ListActive(ctx context.Context) ([]Manager, error) {
	out := []Manager{}
	lastPage := 1
	for page := 1; page <= lastPage; page++ {
		resp, err := d.Client.ListUsers(ctx, page, PageSize)
		if err != nil {
			if errors.Is(err, keycrm.ErrMissingAPIKey) {
				return nil, ErrNotConfigured
			}
			return nil, err
		}
		if page == 1 {
			lastPage = resp.Pages()
		}
		for _, u := range resp.Data {
			if u.Status != statusActive {
				continue
			}
			out = append(out, Manager{ID: u.ID, DisplayName: u.DisplayName()})
		}
	}
	return out, nil
}
