package policy

import "context"

type Repository interface {
	// GetActive returns the single active policy version, or ErrNoActivePolicy.
	GetActive(ctx context.Context) (*Policy, error)
	// Create inserts a new version row (does not touch the active flag of
	// existing rows; use DeactivateAll first, in one transaction).
	Create(ctx context.Context, p *Policy) error
	DeactivateAll(ctx context.Context) error
	ListVersions(ctx context.Context) ([]Policy, error)
}
