package models

// Subject is a taxonomy subject name, or SubjectOther.
type Subject string

// SubjectOther means no subject matched or the classifier abstained.
const SubjectOther Subject = "Other"

const (
	SubjectPhysics     Subject = "Physics"
	SubjectChemistry   Subject = "Chemistry"
	SubjectMathematics Subject = "Mathematics"
	SubjectBiology     Subject = "Biology"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ClassificationSource records which stage produced the final subject.
type ClassificationSource string

const (
	SourceKeyword ClassificationSource = "keyword"
	SourceLLM     ClassificationSource = "llm"
)
