// Package tariff manages the priced plans users subscribe to.
package tariff

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kaspistat/catalog-service/internal/apperr"
	"github.com/kaspistat/catalog-service/internal/session"
)

// Status of a tariff row. Deleted tariffs stay in the table.
type Status int

const (
	StatusDeleted Status = 0
	StatusActive  Status = 1
)

// Tariff grants Role for Months at Price.
type Tariff struct {
	ID     int64           `json:"id"`
	Role   session.Role    `json:"role"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Months int             `json:"months"`
	Status Status          `json:"-"`
}

// Patch is a partial update. Nil and zero fields are left unchanged.
type Patch struct {
	Role   *session.Role    `json:"role,omitempty"`
	Name   *string          `json:"name,omitempty"`
	Price  *decimal.Decimal `json:"price,omitempty"`
	Months *int             `json:"months,omitempty"`
}

// Store persists tariffs. Get returns nil when the row does not exist.
type Store interface {
	ListTariffs(ctx context.Context, status Status) ([]Tariff, error)
	GetTariff(ctx context.Context, id int64) (*Tariff, error)
	CreateTariff(ctx context.Context, t *Tariff) error
	UpdateTariff(ctx context.Context, t *Tariff) error
	// SetTariffStatus reports whether a row was changed.
	SetTariffStatus(ctx context.Context, id int64, status Status) (bool, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// FetchAll returns the active tariffs.
func (s *Service) FetchAll(ctx context.Context) ([]Tariff, error) {
	rows, err := s.store.ListTariffs(ctx, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("list tariffs: %w", err)
	}
	if rows == nil {
		rows = []Tariff{}
	}
	return rows, nil
}

// FetchOne returns an active tariff.
func (s *Service) FetchOne(ctx context.Context, id int64) (*Tariff, error) {
	t, err := s.store.GetTariff(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tariff %d: %w", id, err)
	}
	if t == nil || t.Status != StatusActive {
		return nil, notFound(id)
	}
	return t, nil
}

// Add creates an active tariff.
func (s *Service) Add(ctx context.Context, t Tariff) (*Tariff, error) {
	t.Name = strings.TrimSpace(t.Name)
	if err := validate(t); err != nil {
		return nil, err
	}
	t.Status = StatusActive
	if err := s.store.CreateTariff(ctx, &t); err != nil {
		return nil, fmt.Errorf("create tariff: %w", err)
	}
	return &t, nil
}

// Update applies p to an existing tariff.
func (s *Service) Update(ctx context.Context, id int64, p Patch) (*Tariff, error) {
	t, err := s.store.GetTariff(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tariff %d: %w", id, err)
	}
	if t == nil {
		return nil, notFound(id)
	}

	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Role != nil && *p.Role != "" {
		t.Role = *p.Role
	}
	if p.Price != nil && !p.Price.IsZero() {
		t.Price = *p.Price
	}
	if p.Months != nil && *p.Months != 0 {
		t.Months = *p.Months
	}
	if err := validate(*t); err != nil {
		return nil, err
	}

	if err := s.store.UpdateTariff(ctx, t); err != nil {
		return nil, fmt.Errorf("update tariff %d: %w", id, err)
	}
	return t, nil
}

// Delete marks a tariff deleted and reports whether it existed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := s.store.SetTariffStatus(ctx, id, StatusDeleted)
	if err != nil {
		return false, fmt.Errorf("delete tariff %d: %w", id, err)
	}
	return ok, nil
}

func validate(t Tariff) error {
	switch {
	case !validRole(t.Role):
		return apperr.Validation("Tariff role is not valid")
	case t.Name == "":
		return apperr.Validation("Tariff name is not defined")
	case t.Price.IsNegative():
		return apperr.Validation("Tariff price is not valid")
	case t.Months < 1:
		return apperr.Validation("Tariff months value is not valid")
	}
	return nil
}

func validRole(r session.Role) bool {
	roles := session.ParseRoles(string(r))
	return len(roles) == 1 && roles[0] == r
}

func notFound(id int64) error {
	return apperr.NotFound(fmt.Sprintf("Could not find tariff by id %d", id))
}
