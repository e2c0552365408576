package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/vnkhanh/smart-flashcard-backend/logger"
	"github.com/vnkhanh/smart-flashcard-backend/models"
	"github.com/vnkhanh/smart-flashcard-backend/services"
	"gorm.io/gorm"
)

// FlashcardRepo is the gorm-backed services.FlashcardStore.
type FlashcardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFlashcardRepo(db *gorm.DB, baseLog *logger.Logger) *FlashcardRepo {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &FlashcardRepo{db: db, log: baseLog.With("repo", "FlashcardRepo")}
}

var _ services.FlashcardStore = (*FlashcardRepo)(nil)

func (r *FlashcardRepo) Exists(ctx context.Context, studentID, question, answer string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Flashcard{}).
		Where("dedup_key = ?", models.DedupKey(studentID, question, answer)).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert stores card inside a transaction. The unique dedup_key index turns a
// racing duplicate into services.ErrDuplicateFlashcard.
func (r *FlashcardRepo) Insert(ctx context.Context, card *models.Flashcard) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(card).Error
	})
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return services.ErrDuplicateFlashcard
	}
	return err
}

// ListByStudent returns the student's cards oldest first, optionally limited to one subject.
func (r *FlashcardRepo) ListByStudent(ctx context.Context, studentID string, subject *models.Subject) ([]models.Flashcard, error) {
	var out []models.Flashcard
	q := r.db.WithContext(ctx).Where("student_id = ?", studentID)
	if subject != nil {
		q = q.Where("subject = ?", *subject)
	}
	if err := q.Order("created_at ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *FlashcardRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Flashcard{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *FlashcardRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
