package testutil

import (
	"strconv"
	"testing"

	"gorm.io/gorm"

	"github.com/vnkhanh/smart-flashcard-backend/models"
)

// SeedFlashcard stores a card directly, bypassing classification. Each call
// gets a unique question so the dedup index never trips.
func SeedFlashcard(tb testing.TB, db *gorm.DB, studentID string, subject models.Subject, question string) models.Flashcard {
	tb.Helper()
	card := models.Flashcard{
		StudentID: studentID,
		Question:  question,
		Answer:    "answer to " + question,
		Subject:   subject,
	}
	if err := db.Create(&card).Error; err != nil {
		tb.Fatalf("seed flashcard: %v", err)
	}
	return card
}

// SeedFlashcards stores n cards of one subject for studentID.
func SeedFlashcards(tb testing.TB, db *gorm.DB, studentID string, subject models.Subject, n int) []models.Flashcard {
	tb.Helper()
	out := make([]models.Flashcard, 0, n)
	for i := 0; i < n; i++ {
		q := string(subject) + " question " + strconv.Itoa(i)
		out = append(out, SeedFlashcard(tb, db, studentID, subject, q))
	}
	return out
}
