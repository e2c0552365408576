package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/smart-flashcard-backend/models"
)

type stubLabelModel struct {
	mu      sync.Mutex
	label   string
	err     error
	delay   time.Duration
	// deaf models sleep through cancellation
	deaf    bool
	panics  bool
	prompts []string
}

func (m *stubLabelModel) Classify(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.panics {
		panic("model exploded")
	}
	if m.delay > 0 && m.deaf {
		time.Sleep(m.delay)
	} else if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.label, m.err
}

func (m *stubLabelModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func TestClassifyTwoKeywordsIsMediumWithoutEscalation(t *testing.T) {
	model := &stubLabelModel{label: "Chemistry"}
	c := NewSubjectClassifier(physicsChemistry(), model, time.Second)

	got := c.Classify(context.Background(), "What is force and energy?", "")

	assert.Equal(t, models.SubjectPhysics, got.Subject)
	assert.Equal(t, models.ConfidenceMedium, got.Confidence)
	assert.Equal(t, models.SourceKeyword, got.Source)
	assert.False(t, got.Escalated)
	assert.Zero(t, model.calls())
}

func TestClassifyThreeKeywordsIsHigh(t *testing.T) {
	c := NewSubjectClassifier(nil, nil, 0)

	got := c.Classify(context.Background(),
		"Explain mitosis.",
		"A cell divides into two identical daughter cells with the same dna")

	assert.Equal(t, models.SubjectBiology, got.Subject)
	assert.Equal(t, models.ConfidenceHigh, got.Confidence)
	assert.Equal(t, 3, got.Scores[models.SubjectBiology])
}

func TestClassifyNoMatchEscalates(t *testing.T) {
	model := &stubLabelModel{label: "Physics"}
	c := NewSubjectClassifier(physicsChemistry(), model, time.Second)

	got := c.Classify(context.Background(), "Who wrote Hamlet?", "William Shakespeare")

	assert.Equal(t, models.SubjectPhysics, got.Subject)
	assert.Equal(t, models.ConfidenceMedium, got.Confidence)
	assert.Equal(t, models.SourceLLM, got.Source)
	assert.True(t, got.Escalated)
	assert.NoError(t, got.EscalationErr)
	require.Equal(t, 1, model.calls())
	assert.Contains(t, model.prompts[0], "Physics, Chemistry")
	assert.Contains(t, model.prompts[0], "Question: Who wrote Hamlet?\nAnswer: William Shakespeare")
}

func TestClassifySingleKeywordEscalationOverrides(t *testing.T) {
	model := &stubLabelModel{label: "Physics"}
	c := NewSubjectClassifier(physicsChemistry(), model, time.Second)

	got := c.Classify(context.Background(), "What is an atom?", "The smallest unit of matter")

	assert.Equal(t, 1, got.Scores[models.SubjectChemistry])
	assert.Equal(t, models.SubjectPhysics, got.Subject)
	assert.Equal(t, models.ConfidenceMedium, got.Confidence)
}

func TestClassifyWithoutModelKeepsKeywordResult(t *testing.T) {
	c := NewSubjectClassifier(physicsChemistry(), nil, 0)

	got := c.Classify(context.Background(), "Capital of France?", "Paris")

	assert.Equal(t, models.SubjectOther, got.Subject)
	assert.Equal(t, models.ConfidenceLow, got.Confidence)
	assert.Equal(t, models.SourceKeyword, got.Source)
	assert.False(t, got.Escalated)
	assert.False(t, c.EscalationEnabled())
}

func TestClassifyTieGoesToEarlierSubject(t *testing.T) {
	c := NewSubjectClassifier(physicsChemistry(), nil, 0)

	got := c.Classify(context.Background(), "force", "bond")

	assert.Equal(t, models.SubjectPhysics, got.Subject)
	assert.Equal(t, models.ConfidenceLow, got.Confidence)
}

func TestClassifyEscalationFaultsFallBack(t *testing.T) {
	modelErr := errors.New("connection refused")

	cases := []struct {
		name    string
		model   *stubLabelModel
		timeout time.Duration
		wantErr error
	}{
		{name: "unreachable", model: &stubLabelModel{err: modelErr}, timeout: time.Second, wantErr: modelErr},
		{name: "timeout", model: &stubLabelModel{label: "Physics", delay: time.Second}, timeout: 20 * time.Millisecond, wantErr: context.DeadlineExceeded},
		{name: "other label", model: &stubLabelModel{label: "Other"}, timeout: time.Second, wantErr: ErrLabelOutsideTaxonomy},
		{name: "unknown label", model: &stubLabelModel{label: "History"}, timeout: time.Second, wantErr: ErrLabelOutsideTaxonomy},
		{name: "chatty label", model: &stubLabelModel{label: "It is Physics, clearly"}, timeout: time.Second, wantErr: ErrLabelOutsideTaxonomy},
		{name: "panic", model: &stubLabelModel{panics: true}, timeout: time.Second, wantErr: ErrLabelModelPanic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewSubjectClassifier(physicsChemistry(), tc.model, tc.timeout)

			got := c.Classify(context.Background(), "Who wrote Hamlet?", "William Shakespeare")

			assert.Equal(t, models.SubjectOther, got.Subject)
			assert.Equal(t, models.ConfidenceLow, got.Confidence)
			assert.Equal(t, models.SourceKeyword, got.Source)
			assert.True(t, got.Escalated)
			assert.ErrorIs(t, got.EscalationErr, tc.wantErr)
		})
	}
}

func TestClassifyTimeoutHoldsForModelIgnoringContext(t *testing.T) {
	model := &stubLabelModel{label: "Physics", delay: 800 * time.Millisecond, deaf: true}
	c := NewSubjectClassifier(physicsChemistry(), model, 30*time.Millisecond)

	start := time.Now()
	got := c.Classify(context.Background(), "Who wrote Hamlet?", "William Shakespeare")
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 400*time.Millisecond)
	assert.Equal(t, models.SubjectOther, got.Subject)
	assert.Equal(t, models.ConfidenceLow, got.Confidence)
	assert.Equal(t, models.SourceKeyword, got.Source)
	assert.ErrorIs(t, got.EscalationErr, context.DeadlineExceeded)
}

func TestClassifyAcceptsDecoratedLabels(t *testing.T) {
	for _, raw := range []string{"physics", " Physics.\n", "**Physics**", "\"Physics\"", "```\nPhysics\n```", "Physics\nBecause of force."} {
		c := NewSubjectClassifier(physicsChemistry(), &stubLabelModel{label: raw}, time.Second)

		got := c.Classify(context.Background(), "Who wrote Hamlet?", "William Shakespeare")

		assert.Equal(t, models.SubjectPhysics, got.Subject, "%q", raw)
		assert.Equal(t, models.SourceLLM, got.Source, "%q", raw)
	}
}

func TestClassifyIsIdempotentWithoutEscalation(t *testing.T) {
	c := NewSubjectClassifier(nil, nil, 0)
	q, a := "What is Newton's second law of motion?", "Force equals mass times acceleration"

	first := c.Classify(context.Background(), q, a)
	second := c.Classify(context.Background(), q, a)

	assert.Equal(t, first, second)
	assert.Equal(t, models.SubjectPhysics, first.Subject)
	assert.Equal(t, models.ConfidenceHigh, first.Confidence)
}

func TestClassifyHonoursCallerCancellation(t *testing.T) {
	model := &stubLabelModel{label: "Physics", delay: time.Second}
	c := NewSubjectClassifier(physicsChemistry(), model, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := c.Classify(ctx, "Who wrote Hamlet?", "William Shakespeare")

	assert.Equal(t, models.SubjectOther, got.Subject)
	assert.ErrorIs(t, got.EscalationErr, context.Canceled)
}

func TestClassifySharedRootKeyword(t *testing.T) {
	c := NewSubjectClassifier(nil, nil, 0)

	got := c.Classify(context.Background(), "organic", "")

	assert.Equal(t, 1, got.Scores[models.SubjectChemistry])
	assert.Equal(t, 1, got.Scores[models.SubjectBiology])
	assert.Equal(t, models.SubjectChemistry, got.Subject)
	assert.Equal(t, models.ConfidenceLow, got.Confidence)
}

func TestPromptListsEverySubject(t *testing.T) {
	p := NewSubjectClassifier(nil, nil, 0).Prompt("q", "a")

	for _, s := range DefaultTaxonomy().Subjects() {
		assert.Contains(t, p, string(s))
	}
	assert.Contains(t, p, "answer Other")
}
