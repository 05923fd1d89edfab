package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/user-card-service/internal/domain"
	"github.com/markethub/user-card-service/internal/ports"
	"gorm.io/gorm"
)

type cardRepository struct {
	db *gorm.DB
}

func (r *cardRepository) Create(ctx context.Context, params ports.CreateCardParams) (domain.CardInfo, error) {
	rec := cardInfoModel{
		UserID:         params.UserID,
		Number:         params.Number,
		Holder:         params.Holder,
		ExpirationDate: params.ExpirationDate,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.CardInfo{}, fmt.Errorf("%w: card number is already registered", domain.ErrConflict)
		}
		return domain.CardInfo{}, err
	}
	return toDomainCard(rec), nil
}

func (r *cardRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.CardInfo, error) {
	var rec cardInfoModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CardInfo{}, fmt.Errorf("%w: card with id %s not found", domain.ErrNotFound, id)
		}
		return domain.CardInfo{}, err
	}
	return toDomainCard(rec), nil
}

func (r *cardRepository) FindByNumber(ctx context.Context, number string) (domain.CardInfo, bool, error) {
	var rec cardInfoModel
	if err := r.db.WithContext(ctx).Where("number = ?", number).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CardInfo{}, false, nil
		}
		return domain.CardInfo{}, false, err
	}
	return toDomainCard(rec), true, nil
}

func (r *cardRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&cardInfoModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *cardRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&cardInfoModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: card with id %s not found", domain.ErrNotFound, id)
	}
	return nil
}

func (r *cardRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]domain.CardInfo, error) {
	var rows []cardInfoModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("expiration_date asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainCards(rows), nil
}

func (r *cardRepository) FindExpired(ctx context.Context, asOf time.Time) ([]domain.CardInfo, error) {
	var rows []cardInfoModel
	err := r.db.WithContext(ctx).
		Where("expiration_date < ?", asOf).
		Order("expiration_date asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainCards(rows), nil
}

func toDomainCards(rows []cardInfoModel) []domain.CardInfo {
	out := make([]domain.CardInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainCard(row))
	}
	return out
}
