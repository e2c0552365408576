package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Flashcard is immutable after creation. DedupKey carries the per-student
// uniqueness of (question, answer) so long texts never hit index size limits.
type Flashcard struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID string    `gorm:"size:100;not null;index" json:"student_id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Subject   Subject   `gorm:"size:50;not null;index" json:"subject"`
	DedupKey  string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// gen_random_uuid() is postgres-only, so ids are assigned client side.
func (f *Flashcard) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.DedupKey = DedupKey(f.StudentID, f.Question, f.Answer)
	return nil
}

// DedupKey is the hex sha256 of the owner, question and answer, NUL separated.
func DedupKey(studentID, question, answer string) string {
	h := sha256.New()
	h.Write([]byte(studentID))
	h.Write([]byte{0})
	h.Write([]byte(question))
	h.Write([]byte{0})
	h.Write([]byte(answer))
	return hex.EncodeToString(h.Sum(nil))
}
