package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vendora/internal/models"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, wrap("get user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, wrap("get user by email", err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return wrap("create user", err)
	}
	return nil
}

func (r *userRepository) IncrementTokenVersion(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return wrap("increment token version", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

type settingsRepository struct {
	db *gorm.DB
}

func (r *settingsRepository) Get(ctx context.Context) (*models.ProgramSettings, error) {
	var settings models.ProgramSettings
	if err := r.db.WithContext(ctx).Order("id ASC").First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, wrap("get program settings", err)
	}
	return &settings, nil
}

func (r *settingsRepository) ListMLMLevels(ctx context.Context) ([]models.MLMLevelRate, error) {
	var levels []models.MLMLevelRate
	if err := r.db.WithContext(ctx).Order("level ASC").Find(&levels).Error; err != nil {
		return nil, wrap("list mlm levels", err)
	}
	return levels, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *models.ProgramSettings) error {
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return wrap("save program settings", err)
	}
	return nil
}
