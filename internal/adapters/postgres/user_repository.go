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

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, params ports.CreateUserParams) (domain.User, error) {
	rec := userModel{
		Name:      params.Name,
		Surname:   params.Surname,
		BirthDate: params.BirthDate,
		Email:     params.Email,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("%w: user with email %s already exists", domain.ErrConflict, params.Email)
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) Update(ctx context.Context, params ports.UpdateUserParams) (domain.User, error) {
	updates := map[string]any{
		"name":       params.Name,
		"surname":    params.Surname,
		"birth_date": params.BirthDate,
		"email":      params.Email,
	}
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", params.ID).Updates(updates)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return domain.User{}, fmt.Errorf("%w: email %s is already in use by another user", domain.ErrConflict, params.Email)
		}
		return domain.User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.User{}, fmt.Errorf("%w: user with id %s not found", domain.ErrNotFound, params.ID)
	}
	return r.FindByID(ctx, params.ID)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("%w: user with id %s not found", domain.ErrNotFound, id)
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return toDomainUser(rec), true, nil
}

func (r *userRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user with id %s not found", domain.ErrNotFound, id)
	}
	return nil
}

func (r *userRepository) FindAll(ctx context.Context, page ports.PageRequest) ([]domain.User, int64, error) {
	return r.pagedQuery(ctx, r.db.WithContext(ctx).Model(&userModel{}), page)
}

func (r *userRepository) FindBySearchTerm(ctx context.Context, term string, page ports.PageRequest) ([]domain.User, int64, error) {
	pattern := "%" + term + "%"
	q := r.db.WithContext(ctx).Model(&userModel{}).
		Where("name ILIKE ? OR surname ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	return r.pagedQuery(ctx, q, page)
}

func (r *userRepository) FindWithBirthdayOn(ctx context.Context, date time.Time) ([]domain.User, error) {
	var rows []userModel
	err := r.db.WithContext(ctx).
		Where("EXTRACT(MONTH FROM birth_date) = ? AND EXTRACT(DAY FROM birth_date) = ?",
			int(date.Month()), date.Day()).
		Order("email asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainUser(row))
	}
	return out, nil
}

func (r *userRepository) pagedQuery(ctx context.Context, q *gorm.DB, page ports.PageRequest) ([]domain.User, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q = q.Order("email asc")
	if page.Paged() {
		q = q.Offset(page.Offset()).Limit(page.Size)
	}
	var rows []userModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainUser(row))
	}
	return out, total, nil
}
