package mysql

import (
	"context"
	"errors"
	"time"

	applicantDomain "paya-bnpl-backend/internal/domain/applicant"

	"gorm.io/gorm"
)

// ApplicantRepository looks up the stored employment/financial record. A row
// that does not exist is a MissingRecord outcome, not an error; underwriting
// turns it into a labeled rejection.
type ApplicantRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewApplicantRepository(db *gorm.DB) *ApplicantRepository {
	return &ApplicantRepository{db: db, now: time.Now}
}

func (r *ApplicantRepository) GetByCustomerID(ctx context.Context, customerID string) (applicantDomain.Data, error) {
	var p applicantDomain.Profile
	res := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&p)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return applicantDomain.MissingRecord(), nil
		}
		return applicantDomain.Data{}, res.Error
	}
	return p.Data(r.now().UTC()), nil
}
