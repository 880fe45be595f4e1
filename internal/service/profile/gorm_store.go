package profile

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// profileRecord is the relational row behind a UserProfile.
type profileRecord struct {
	UID            string    `gorm:"column:uid;primaryKey;size:190;not null"`
	DisplayName    string    `gorm:"column:display_name;size:320"`
	AvatarURL      string    `gorm:"column:avatar_url;size:512"`
	LeetCodeHandle string    `gorm:"column:leetcode_handle;size:190"`
	GFGHandle      string    `gorm:"column:gfg_handle;size:190"`
	CFHandle       string    `gorm:"column:codeforces_handle;size:190"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null"`
}

func (profileRecord) TableName() string {
	return "user_profiles"
}

func (r *profileRecord) toDomain() *domain.UserProfile {
	return &domain.UserProfile{
		UID:         r.UID,
		DisplayName: r.DisplayName,
		AvatarURL:   r.AvatarURL,
		Handles: domain.CleanHandles(map[domain.Platform]string{
			domain.PlatformLeetCode:   r.LeetCodeHandle,
			domain.PlatformGFG:        r.GFGHandle,
			domain.PlatformCodeForces: r.CFHandle,
		}),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func recordFromDomain(p *domain.UserProfile) profileRecord {
	return profileRecord{
		UID:            p.UID,
		DisplayName:    p.DisplayName,
		AvatarURL:      p.AvatarURL,
		LeetCodeHandle: p.Handles[domain.PlatformLeetCode],
		GFGHandle:      p.Handles[domain.PlatformGFG],
		CFHandle:       p.Handles[domain.PlatformCodeForces],
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// GormStore keeps profiles in a SQL database through gorm. It is the default
// local store, backed by SQLite.
type GormStore struct {
	db     *gorm.DB
	now    func() time.Time
	logger *zap.Logger
}

// NewGormStore migrates the profile table and returns the store.
func NewGormStore(db *gorm.DB, logger *zap.Logger) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("profile: database connection required")
	}
	if err := db.AutoMigrate(&profileRecord{}); err != nil {
		return nil, fmt.Errorf("profile: migrate: %w", err)
	}
	return &GormStore{
		db:     db,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}, nil
}

func (s *GormStore) GetUserProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	if err := validateUID(uid); err != nil {
		return nil, err
	}

	var record profileRecord
	err := s.db.WithContext(ctx).Where("uid = ?", uid).Take(&record).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewProfileNotFoundError(uid)
	}
	if err != nil {
		return nil, errors.NewServiceError("profile lookup failed", "profile", "get", err)
	}
	return record.toDomain(), nil
}

func (s *GormStore) UpdateUserProfile(ctx context.Context, uid string, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	if err := validateUID(uid); err != nil {
		return nil, err
	}
	if err := validateUpdate(update); err != nil {
		return nil, err
	}

	var updated *domain.UserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record profileRecord
		if err := tx.Where("uid = ?", uid).Take(&record).Error; err != nil {
			return err
		}

		profile := record.toDomain()
		update.Apply(profile)
		profile.UpdatedAt = s.now()

		next := recordFromDomain(profile)
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		updated = profile
		return nil
	})
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewProfileNotFoundError(uid)
	}
	if err != nil {
		return nil, errors.NewServiceError("profile update failed", "profile", "update", err)
	}

	s.logger.Info("Profile updated", zap.String("uid", uid), zap.Int("handles", len(updated.Handles)))
	return updated, nil
}

func (s *GormStore) EnsureProfile(ctx context.Context, uid, displayName, avatarURL string) (*domain.UserProfile, error) {
	if err := validateUID(uid); err != nil {
		return nil, err
	}

	now := s.now()
	record := profileRecord{
		UID:         uid,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if result.Error != nil {
		return nil, errors.NewServiceError("profile create failed", "profile", "ensure", result.Error)
	}
	if result.RowsAffected > 0 {
		s.logger.Info("Profile created", zap.String("uid", uid))
	}

	return s.GetUserProfile(ctx, uid)
}
