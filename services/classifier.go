package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vnkhanh/smart-flashcard-backend/models"
)

// DefaultEscalationTimeout bounds how long Classify waits for the language model.
const DefaultEscalationTimeout = 5 * time.Second

var (
	ErrLabelOutsideTaxonomy = errors.New("label model returned a subject outside the taxonomy")
	ErrLabelModelPanic      = errors.New("label model panicked")
)

// LabelModel is the external language model used for low-confidence escalation.
// Given a constrained prompt it returns a single label or fails.
type LabelModel interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

// Classification is the classifier outcome. EscalationErr records a recovered
// language-model fault so the caller can log it; Subject and Confidence are
// always usable.
type Classification struct {
	Subject       models.Subject              `json:"subject"`
	Confidence    models.Confidence           `json:"confidence"`
	Source        models.ClassificationSource `json:"source"`
	Scores        map[models.Subject]int      `json:"scores"`
	Escalated     bool                        `json:"-"`
	EscalationErr error                       `json:"-"`
}

// SubjectClassifier is the hybrid classifier: keyword scoring first, then an
// optional language-model call when the keyword confidence is low.
type SubjectClassifier struct {
	taxonomy *Taxonomy
	scorer   *KeywordScorer
	model    LabelModel
	timeout  time.Duration
}

// NewSubjectClassifier builds a classifier. model may be nil, which disables
// escalation; a non-positive timeout selects DefaultEscalationTimeout.
func NewSubjectClassifier(t *Taxonomy, model LabelModel, timeout time.Duration) *SubjectClassifier {
	if t == nil {
		t = DefaultTaxonomy()
	}
	if timeout <= 0 {
		timeout = DefaultEscalationTimeout
	}
	return &SubjectClassifier{
		taxonomy: t,
		scorer:   NewKeywordScorer(t),
		model:    model,
		timeout:  timeout,
	}
}

func (c *SubjectClassifier) Taxonomy() *Taxonomy { return c.taxonomy }

// EscalationEnabled reports whether a language model is configured.
func (c *SubjectClassifier) EscalationEnabled() bool { return c.model != nil }

func (c *SubjectClassifier) Classify(ctx context.Context, question, answer string) Classification {
	scores := c.scorer.Score(question + " " + answer)
	subject, confidence := c.pickByKeywords(scores)
	result := Classification{
		Subject:    subject,
		Confidence: confidence,
		Source:     models.SourceKeyword,
		Scores:     scores,
	}
	if confidence != models.ConfidenceLow || c.model == nil {
		return result
	}

	result.Escalated = true
	label, err := c.escalate(ctx, question, answer)
	if err != nil {
		result.EscalationErr = err
		return result
	}
	result.Subject = label
	result.Confidence = models.ConfidenceMedium
	result.Source = models.SourceLLM
	return result
}

// pickByKeywords walks the taxonomy in order and keeps the first subject that
// reaches the highest score. Ties therefore go to the earlier subject.
func (c *SubjectClassifier) pickByKeywords(scores map[models.Subject]int) (models.Subject, models.Confidence) {
	best := models.SubjectOther
	bestScore := 0
	for _, e := range c.taxonomy.entries {
		if n := scores[e.Subject]; n > bestScore {
			best, bestScore = e.Subject, n
		}
	}
	return best, confidenceFor(bestScore)
}

func confidenceFor(score int) models.Confidence {
	switch {
	case score >= 3:
		return models.ConfidenceHigh
	case score == 2:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

type labelReply struct {
	raw string
	err error
}

// escalate asks the model for a label. The call runs on its own goroutine so
// the timeout holds even for a model that ignores ctx; a late reply is dropped.
func (c *SubjectClassifier) escalate(ctx context.Context, question, answer string) (models.Subject, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := c.Prompt(question, answer)
	replies := make(chan labelReply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				replies <- labelReply{err: fmt.Errorf("%w: %v", ErrLabelModelPanic, r)}
			}
		}()
		raw, err := c.model.Classify(ctx, prompt)
		replies <- labelReply{raw: raw, err: err}
	}()

	var reply labelReply
	select {
	case reply = <-replies:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if reply.err != nil {
		return "", reply.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	label, ok := c.taxonomy.Label(cleanLabel(reply.raw))
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrLabelOutsideTaxonomy, reply.raw)
	}
	return label, nil
}

// Prompt is the constrained instruction sent to the language model.
func (c *SubjectClassifier) Prompt(question, answer string) string {
	subjects := c.taxonomy.Subjects()
	names := make([]string, len(subjects))
	for i, s := range subjects {
		names[i] = string(s)
	}
	var b strings.Builder
	b.WriteString("You identify the academic subject of a flashcard.\n")
	fmt.Fprintf(&b, "Choose exactly one subject from this list: %s.\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "If none of them fits, answer %s.\n", models.SubjectOther)
	b.WriteString("Reply with the subject name only, exactly as written in the list. No punctuation, no explanation.\n\n")
	fmt.Fprintf(&b, "Question: %s\nAnswer: %s", question, answer)
	return b.String()
}

// cleanLabel strips the decoration models tend to add around a one-word reply.
func cleanLabel(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.Trim(s, " \t\r\n\"'`*.")
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
