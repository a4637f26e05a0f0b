package policymock

import (
	"context"

	domain "paya-bnpl-backend/internal/domain/policy"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetActiveFn     func(ctx context.Context) (*domain.Policy, error)
	CreateFn        func(ctx context.Context, p *domain.Policy) error
	DeactivateAllFn func(ctx context.Context) error
	ListVersionsFn  func(ctx context.Context) ([]domain.Policy, error)
}

func (m *Repo) GetActive(ctx context.Context) (*domain.Policy, error) {
	if m.GetActiveFn != nil {
		return m.GetActiveFn(ctx)
	}
	return nil, domain.ErrNoActivePolicy
}

func (m *Repo) Create(ctx context.Context, p *domain.Policy) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) DeactivateAll(ctx context.Context) error {
	if m.DeactivateAllFn != nil {
		return m.DeactivateAllFn(ctx)
	}
	return nil
}

func (m *Repo) ListVersions(ctx context.Context) ([]domain.Policy, error) {
	if m.ListVersionsFn != nil {
		return m.ListVersionsFn(ctx)
	}
	return nil, nil
}
