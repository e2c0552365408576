package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/smart-flashcard-backend/models"
)

type SubjectOutput struct {
	Name     models.Subject `json:"name"`
	Slug     string         `json:"slug"`
	Keywords []string       `json:"keywords"`
}

// GET /subjects
func GetSubjects(c *gin.Context) {
	tax := flashcardService(c).Taxonomy()
	entries := tax.Entries()
	out := make([]SubjectOutput, 0, len(entries)+1)
	for _, e := range entries {
		out = append(out, SubjectOutput{Name: e.Subject, Slug: tax.Slug(e.Subject), Keywords: e.Keywords})
	}
	out = append(out, SubjectOutput{Name: models.SubjectOther, Slug: tax.Slug(models.SubjectOther), Keywords: []string{}})
	c.JSON(http.StatusOK, gin.H{"data": out, "total": len(out)})
}

type AnalyzeTextRequest struct {
	Text string `form:"text" binding:"required"`
}

// GET /analyze-text?text=
func AnalyzeText(c *gin.Context) {
	var req AnalyzeTextRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	cls, err := flashcardService(c).AnalyzeText(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, requestLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, cls)
}
