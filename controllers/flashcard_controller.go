package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/smart-flashcard-backend/models"
	"github.com/vnkhanh/smart-flashcard-backend/services"
)

type CreateFlashcardRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Question  string `json:"question" binding:"required"`
	Answer    string `json:"answer" binding:"required"`
}

type CreateFlashcardResponse struct {
	ID         uuid.UUID         `json:"id"`
	Message    string            `json:"message"`
	Subject    models.Subject    `json:"subject"`
	Confidence models.Confidence `json:"confidence"`
	CreatedAt  time.Time         `json:"created_at"`
}

// POST /flashcard
func CreateFlashcard(c *gin.Context) {
	svc := flashcardService(c)

	var req CreateFlashcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := svc.CreateFlashcard(c.Request.Context(), services.CreateFlashcardInput{
		StudentID: req.StudentID,
		Question:  req.Question,
		Answer:    req.Answer,
	})
	if err != nil {
		respondError(c, requestLogger(c), err)
		return
	}

	c.JSON(http.StatusOK, CreateFlashcardResponse{
		ID:         res.Flashcard.ID,
		Message:    "Flashcard added successfully",
		Subject:    res.Flashcard.Subject,
		Confidence: res.Classification.Confidence,
		CreatedAt:  res.Flashcard.CreatedAt,
	})
}

type MixedFlashcardsRequest struct {
	StudentID string `form:"student_id" binding:"required"`
	Limit     *int   `form:"limit"`
	Subject   string `form:"subject"`
}

type FlashcardOutput struct {
	ID        uuid.UUID      `json:"id"`
	Question  string         `json:"question"`
	Answer    string         `json:"answer"`
	Subject   models.Subject `json:"subject"`
	CreatedAt time.Time      `json:"created_at"`
}

// GET /get-subject?student_id=&limit=&subject=
func GetMixedFlashcards(c *gin.Context) {
	svc := flashcardService(c)

	var req MixedFlashcardsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	limit := services.DefaultMixedLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	cards, err := svc.GetMixedFlashcards(c.Request.Context(), services.MixedFlashcardsQuery{
		StudentID: req.StudentID,
		Limit:     limit,
		Subject:   req.Subject,
	})
	if err != nil {
		respondError(c, requestLogger(c), err)
		return
	}

	out := make([]FlashcardOutput, 0, len(cards))
	for _, card := range cards {
		out = append(out, FlashcardOutput{
			ID:        card.ID,
			Question:  card.Question,
			Answer:    card.Answer,
			Subject:   card.Subject,
			CreatedAt: card.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}
