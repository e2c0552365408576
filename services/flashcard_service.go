package services

import (
	"context"
	"errors"

	"github.com/vnkhanh/smart-flashcard-backend/logger"
	"github.com/vnkhanh/smart-flashcard-backend/models"
)

const (
	DefaultMixedLimit = 5
	MaxMixedLimit     = 50
)

// FlashcardStore is the persistence collaborator. Insert must report a
// duplicate (owner, question, answer) as ErrDuplicateFlashcard.
type FlashcardStore interface {
	Exists(ctx context.Context, studentID, question, answer string) (bool, error)
	Insert(ctx context.Context, card *models.Flashcard) error
	ListByStudent(ctx context.Context, studentID string, subject *models.Subject) ([]models.Flashcard, error)
}

// FlashcardNotifier is told about every stored flashcard. Delivery is best effort.
type FlashcardNotifier interface {
	FlashcardCreated(card models.Flashcard)
}

type FlashcardService struct {
	store      FlashcardStore
	classifier *SubjectClassifier
	sampler    *BalancedSampler
	notifier   FlashcardNotifier
	log        *logger.Logger
}

func NewFlashcardService(
	store FlashcardStore,
	classifier *SubjectClassifier,
	sampler *BalancedSampler,
	notifier FlashcardNotifier,
	log *logger.Logger,
) *FlashcardService {
	if classifier == nil {
		classifier = NewSubjectClassifier(nil, nil, 0)
	}
	if sampler == nil {
		sampler = NewBalancedSampler(nil)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FlashcardService{
		store:      store,
		classifier: classifier,
		sampler:    sampler,
		notifier:   notifier,
		log:        log,
	}
}

func (s *FlashcardService) Taxonomy() *Taxonomy { return s.classifier.Taxonomy() }

type CreateFlashcardInput struct {
	StudentID string
	Question  string
	Answer    string
}

type CreateFlashcardResult struct {
	Flashcard      models.Flashcard
	Classification Classification
}

// CreateFlashcard validates, rejects duplicates, classifies and stores one card.
func (s *FlashcardService) CreateFlashcard(ctx context.Context, in CreateFlashcardInput) (*CreateFlashcardResult, error) {
	studentID, err := NormalizeInput("student_id", in.StudentID, MaxStudentIDLength)
	if err != nil {
		return nil, err
	}
	question, err := NormalizeInput("question", in.Question, MaxQuestionLength)
	if err != nil {
		return nil, err
	}
	answer, err := NormalizeInput("answer", in.Answer, MaxAnswerLength)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.Exists(ctx, studentID, question, answer)
	if err != nil {
		return nil, s.storageFault("exists", studentID, err)
	}
	if exists {
		return nil, ErrDuplicateFlashcard
	}

	cls := s.classify(ctx, studentID, question, answer)

	card := models.Flashcard{
		StudentID: studentID,
		Question:  question,
		Answer:    answer,
		Subject:   cls.Subject,
	}
	if err := s.store.Insert(ctx, &card); err != nil {
		// a concurrent insert of the same card can slip past Exists
		if errors.Is(err, ErrDuplicateFlashcard) {
			return nil, ErrDuplicateFlashcard
		}
		return nil, s.storageFault("insert", studentID, err)
	}

	s.log.Info("flashcard created",
		"flashcard_id", card.ID.String(),
		"student_id", studentID,
		"subject", card.Subject,
		"confidence", cls.Confidence,
		"source", cls.Source,
	)
	if s.notifier != nil {
		s.notifier.FlashcardCreated(card)
	}
	return &CreateFlashcardResult{Flashcard: card, Classification: cls}, nil
}

type MixedFlashcardsQuery struct {
	StudentID string
	Limit     int
	// Subject is an optional filter in any case or slug form; "" means all.
	Subject string
}

// GetMixedFlashcards returns a subject-balanced sample of a student's cards.
func (s *FlashcardService) GetMixedFlashcards(ctx context.Context, q MixedFlashcardsQuery) ([]models.Flashcard, error) {
	studentID, err := NormalizeInput("student_id", q.StudentID, MaxStudentIDLength)
	if err != nil {
		return nil, err
	}
	if q.Limit < 1 || q.Limit > MaxMixedLimit {
		return nil, newValidationError("limit", "must be between 1 and %d", MaxMixedLimit)
	}

	var filter *models.Subject
	if q.Subject != "" {
		subject, ok := s.Taxonomy().Resolve(q.Subject)
		if !ok {
			return nil, newValidationError("subject", "unknown subject %q", q.Subject)
		}
		filter = &subject
	}

	cards, err := s.store.ListByStudent(ctx, studentID, filter)
	if err != nil {
		return nil, s.storageFault("list", studentID, err)
	}
	return s.sampler.Select(cards, q.Limit), nil
}

// AnalyzeText classifies free text without storing anything.
func (s *FlashcardService) AnalyzeText(ctx context.Context, text string) (Classification, error) {
	text, err := NormalizeInput("text", text, MaxAnalyzeLength)
	if err != nil {
		return Classification{}, err
	}
	return s.classify(ctx, "", text, ""), nil
}

func (s *FlashcardService) classify(ctx context.Context, studentID, question, answer string) Classification {
	cls := s.classifier.Classify(ctx, question, answer)
	if cls.EscalationErr != nil {
		s.log.Warn("subject escalation failed, keeping keyword result",
			"student_id", studentID,
			"subject", cls.Subject,
			"confidence", cls.Confidence,
			"error", cls.EscalationErr,
		)
	}
	return cls
}

func (s *FlashcardService) storageFault(op, studentID string, err error) error {
	s.log.Error("flashcard store failed", "op", op, "student_id", studentID, "error", err)
	return storageError(op, err)
}
