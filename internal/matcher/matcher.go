// Package matcher ranks graduates against jobs using weighted multi-factor
// scoring over embedding vectors and profile metadata.
package matcher

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Default scoring parameters.
const (
	DefaultMinScore          = 0.3
	DefaultMaxResults        = 50
	DefaultFreshnessHalfLife = 30.0 // days
)

// DefaultWeights returns the default factor weights.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"embedding":  0.6,
		"skills":     0.2,
		"education":  0.1,
		"experience": 0.05,
		"freshness":  0.05,
	}
}

// Candidate is one side of a match computation (the graduate).
type Candidate struct {
	Embedding       []float64
	Skills          []string
	Education       string
	ExperienceYears *float64
}

// JobInput is a job to score against the candidate.
type JobInput struct {
	ID              string
	Embedding       []float64
	Skills          []string
	Education       string
	ExperienceYears *float64
	UpdatedAt       time.Time
}

// Factors holds the individual factor scores of a match.
type Factors struct {
	Embedding  float64 `json:"embedding"`
	Skills     float64 `json:"skills"`
	Education  float64 `json:"education"`
	Experience float64 `json:"experience"`
	Freshness  float64 `json:"freshness"`
}

// Result is one scored job.
type Result struct {
	ID      string  `json:"id"`
	Score   float64 `json:"score"`
	Factors Factors `json:"factors"`
}

// Options tunes a match computation.
type Options struct {
	MinScore float64
	Limit    int
	Weights  map[string]float64
}

// Engine computes weighted match scores.
type Engine struct {
	dimension         int
	freshnessHalfLife float64
	cache             *resultCache
	now               func() time.Time
}

// Config holds Engine configuration.
type Config struct {
	Dimension         int
	FreshnessHalfLife float64
	CacheTTL          time.Duration
	CacheMaxEntries   int
}

// New creates a match engine.
func New(cfg Config) *Engine {
	if cfg.FreshnessHalfLife <= 0 {
		cfg.FreshnessHalfLife = DefaultFreshnessHalfLife
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.CacheMaxEntries <= 0 {
		cfg.CacheMaxEntries = 1024
	}
	return &Engine{
		dimension:         cfg.Dimension,
		freshnessHalfLife: cfg.FreshnessHalfLife,
		cache:             newResultCache(cfg.CacheTTL, cfg.CacheMaxEntries),
		now:               time.Now,
	}
}

// Compute scores the candidate against every job, filters by min score,
// sorts descending and truncates to the limit. Jobs with duplicate ids are
// scored once; the first occurrence wins.
func (e *Engine) Compute(candidate Candidate, jobs []JobInput, opts Options) ([]Result, error) {
	if err := e.validateVector(candidate.Embedding); err != nil {
		return nil, err
	}

	jobs = dedupeJobs(jobs)
	if len(jobs) == 0 {
		return []Result{}, nil
	}

	minScore, limit, weights := prepareOptions(opts)

	key := cacheKey(candidate, jobs, minScore, limit, weights)
	if cached, ok := e.cache.get(key); ok {
		return cached, nil
	}

	now := e.now()
	results := make([]Result, 0, len(jobs))
	for _, job := range jobs {
		if job.ID == "" || len(job.Embedding) == 0 {
			continue
		}

		embeddingScore, err := CosineSimilarity(candidate.Embedding, job.Embedding)
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", job.ID, err)
		}
		embeddingScore = clamp01(embeddingScore)

		factors := Factors{
			Embedding:  round4(embeddingScore),
			Skills:     round4(skillsSimilarity(candidate.Skills, job.Skills)),
			Education:  round4(educationSimilarity(candidate.Education, job.Education)),
			Experience: round4(experienceSimilarity(candidate.ExperienceYears, job.ExperienceYears)),
			Freshness:  round4(e.freshnessScore(job.UpdatedAt, now)),
		}

		score := factors.Embedding*weights["embedding"] +
			factors.Skills*weights["skills"] +
			factors.Education*weights["education"] +
			factors.Experience*weights["experience"] +
			factors.Freshness*weights["freshness"]

		if score < minScore {
			continue
		}

		results = append(results, Result{
			ID:      job.ID,
			Score:   round4(score),
			Factors: factors,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}

	e.cache.set(key, results)
	return results, nil
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 if either vector has zero magnitude.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

func (e *Engine) validateVector(v []float64) error {
	if len(v) == 0 {
		return fmt.Errorf("embedding vector is empty")
	}
	if e.dimension > 0 && len(v) != e.dimension {
		return fmt.Errorf("embedding dimension mismatch: expected %d, got %d", e.dimension, len(v))
	}
	return nil
}

// skillsSimilarity is the Jaccard index of normalised skill sets.
// A candidate with no skills scores 0; a job with no required skills 0.5.
func skillsSimilarity(graduate, job []string) float64 {
	if len(graduate) == 0 {
		return 0
	}
	if len(job) == 0 {
		return 0.5
	}

	gradSet := normaliseSet(graduate)
	jobSet := normaliseSet(job)
	if len(gradSet) == 0 || len(jobSet) == 0 {
		return 0
	}

	intersection := 0
	union := len(jobSet)
	for skill := range gradSet {
		if _, ok := jobSet[skill]; ok {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection) / float64(union)
}

func educationSimilarity(graduate, job string) float64 {
	if job == "" {
		return 0.5
	}
	if graduate == "" {
		return 0
	}
	gradNorm := strings.ToLower(strings.TrimSpace(graduate))
	jobNorm := strings.ToLower(strings.TrimSpace(job))
	if gradNorm == "" || jobNorm == "" {
		return 0
	}
	if gradNorm == jobNorm {
		return 1
	}
	if strings.Contains(jobNorm, gradNorm) || strings.Contains(gradNorm, jobNorm) {
		return 0.7
	}
	return 0
}

func experienceSimilarity(graduateYears, jobYears *float64) float64 {
	if jobYears == nil {
		return 0.6
	}
	if graduateYears == nil {
		return 0
	}
	diff := math.Abs(*graduateYears - *jobYears)
	if diff >= *jobYears {
		return 0
	}
	return math.Max(0, 1-diff/math.Max(*jobYears, 1))
}

// freshnessScore decays exponentially with the job's age.
func (e *Engine) freshnessScore(updatedAt, now time.Time) float64 {
	if updatedAt.IsZero() {
		return 0.5
	}
	ageDays := now.Sub(updatedAt).Hours() / 24
	if ageDays <= 0 {
		return 1
	}
	decay := math.Pow(0.5, ageDays/e.freshnessHalfLife)
	return clamp01(decay)
}

func dedupeJobs(jobs []JobInput) []JobInput {
	seen := make(map[string]struct{}, len(jobs))
	deduped := make([]JobInput, 0, len(jobs))
	for _, job := range jobs {
		if job.ID == "" || len(job.Embedding) == 0 {
			continue
		}
		if _, ok := seen[job.ID]; ok {
			continue
		}
		seen[job.ID] = struct{}{}
		deduped = append(deduped, job)
	}
	return deduped
}

func prepareOptions(opts Options) (minScore float64, limit int, weights map[string]float64) {
	minScore = DefaultMinScore
	if opts.MinScore > 0 {
		minScore = opts.MinScore
	}
	minScore = math.Max(0, math.Min(minScore, 1))

	limit = DefaultMaxResults
	if opts.Limit > 0 {
		limit = opts.Limit
	}

	merged := DefaultWeights()
	for k, v := range opts.Weights {
		if _, ok := merged[k]; ok {
			merged[k] = v
		}
	}
	return minScore, limit, NormaliseWeights(merged)
}

// NormaliseWeights clamps weights to non-negative and scales them to sum 1.
// If everything is zero, all weight falls on the embedding factor.
func NormaliseWeights(weights map[string]float64) map[string]float64 {
	total := 0.0
	positive := make(map[string]float64, len(weights))
	for k, v := range weights {
		if v < 0 {
			v = 0
		}
		positive[k] = v
		total += v
	}
	if total == 0 {
		out := make(map[string]float64, len(weights))
		for k := range weights {
			if k == "embedding" {
				out[k] = 1
			} else {
				out[k] = 0
			}
		}
		return out
	}
	for k, v := range positive {
		positive[k] = v / total
	}
	return positive
}

func normaliseSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		trimmed := strings.ToLower(strings.TrimSpace(v))
		if trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
