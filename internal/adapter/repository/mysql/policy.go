package mysql

import (
	"context"
	"errors"

	policyDomain "paya-bnpl-backend/internal/domain/policy"

	"gorm.io/gorm"
)

type PolicyRepository struct{ db *gorm.DB }

func NewPolicyRepository(db *gorm.DB) *PolicyRepository { return &PolicyRepository{db: db} }

func (r *PolicyRepository) GetActive(ctx context.Context) (*policyDomain.Policy, error) {
	var out policyDomain.Policy
	res := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("version DESC").
		First(&out)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, policyDomain.ErrNoActivePolicy
		}
		return nil, res.Error
	}
	return &out, nil
}

func (r *PolicyRepository) Create(ctx context.Context, p *policyDomain.Policy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PolicyRepository) DeactivateAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&policyDomain.Policy{}).
		Where("active = ?", true).
		Update("active", false).Error
}

func (r *PolicyRepository) ListVersions(ctx context.Context) ([]policyDomain.Policy, error) {
	var out []policyDomain.Policy
	res := r.db.WithContext(ctx).Order("version DESC").Find(&out)
	return out, res.Error
}
