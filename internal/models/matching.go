package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MatchFactors breaks a match score into its weighted components.
type MatchFactors struct {
	Embedding  float64 `json:"embedding"`
	Skills     float64 `json:"skills"`
	Education  float64 `json:"education"`
	Experience float64 `json:"experience"`
	Freshness  float64 `json:"freshness"`
}

// Match is a persisted scored pairing between a graduate and a job.
type Match struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	GraduateID uuid.UUID       `json:"graduate_id" db:"graduate_id"`
	JobID      uuid.UUID       `json:"job_id" db:"job_id"`
	Score      float64         `json:"score" db:"score"`
	Factors    json.RawMessage `json:"factors" db:"factors"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`

	JobTitle     sql.NullString `json:"job_title,omitempty" db:"job_title"`
	CompanyName  sql.NullString `json:"company_name,omitempty" db:"company_name"`
	GraduateName sql.NullString `json:"graduate_name,omitempty" db:"graduate_name"`
}

// MatchRequest tunes an on-demand match computation.
type MatchRequest struct {
	MinScore float64            `json:"min_score"`
	Limit    int                `json:"limit"`
	Weights  map[string]float64 `json:"weights"`
}

// MatchResponse is the result of an on-demand match computation.
type MatchResponse struct {
	Matches   []Match   `json:"matches"`
	Total     int       `json:"total"`
	MatchedAt time.Time `json:"matched_at"`
}

// Assessment statuses.
const (
	AssessmentStatusPending   = "pending"
	AssessmentStatusCompleted = "completed"
)

// AssessmentQuestion is a generated multiple-choice question.
type AssessmentQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
	Skill    string   `json:"skill,omitempty"`
}

// PublicQuestion is a question as exposed to the candidate, without the answer.
type PublicQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Skill    string   `json:"skill,omitempty"`
}

// Assessment is one graded skill assessment attempt for a graduate.
type Assessment struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	GraduateID  uuid.UUID       `json:"graduate_id" db:"graduate_id"`
	Skills      pq.StringArray  `json:"skills" db:"skills"`
	Questions   json.RawMessage `json:"-" db:"questions"`
	Attempt     int             `json:"attempt" db:"attempt"`
	Status      string          `json:"status" db:"status"`
	Score       sql.NullFloat64 `json:"score" db:"score"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	CompletedAt sql.NullTime    `json:"completed_at" db:"completed_at"`
}

// AssessmentSubmission carries the candidate's selected answers, by question index.
type AssessmentSubmission struct {
	Answers []string `json:"answers" binding:"required"`
}

// AssessmentResult reports a graded submission.
type AssessmentResult struct {
	AssessmentID uuid.UUID `json:"assessment_id"`
	Score        float64   `json:"score"`
	Correct      int       `json:"correct"`
	Total        int       `json:"total"`
}
