package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		score, err := CosineSimilarity([]float64{1, 2, 3}, []float64{1, 2, 3})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		score, err := CosineSimilarity([]float64{1, 0}, []float64{0, 1})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, score, 1e-9)
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		score, err := CosineSimilarity([]float64{1, 1}, []float64{-1, -1})
		require.NoError(t, err)
		assert.InDelta(t, -1.0, score, 1e-9)
	})

	t.Run("zero vector scores 0", func(t *testing.T) {
		score, err := CosineSimilarity([]float64{0, 0}, []float64{1, 2})
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
	})

	t.Run("dimension mismatch errors", func(t *testing.T) {
		_, err := CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3})
		assert.Error(t, err)
	})
}

func TestSkillsSimilarity(t *testing.T) {
	t.Run("full overlap", func(t *testing.T) {
		assert.Equal(t, 1.0, skillsSimilarity([]string{"Go", "SQL"}, []string{"go", "sql"}))
	})

	t.Run("partial overlap is jaccard", func(t *testing.T) {
		// intersection 1, union 3
		assert.InDelta(t, 1.0/3.0, skillsSimilarity([]string{"go", "rust"}, []string{"go", "python"}), 1e-9)
	})

	t.Run("no candidate skills scores 0", func(t *testing.T) {
		assert.Equal(t, 0.0, skillsSimilarity(nil, []string{"go"}))
	})

	t.Run("no required skills scores neutral", func(t *testing.T) {
		assert.Equal(t, 0.5, skillsSimilarity([]string{"go"}, nil))
	})

	t.Run("whitespace and case are normalised", func(t *testing.T) {
		assert.Equal(t, 1.0, skillsSimilarity([]string{"  Go  "}, []string{"go"}))
	})
}

func TestEducationSimilarity(t *testing.T) {
	assert.Equal(t, 0.5, educationSimilarity("bachelor", ""))
	assert.Equal(t, 0.0, educationSimilarity("", "bachelor"))
	assert.Equal(t, 1.0, educationSimilarity("Bachelor", "bachelor"))
	assert.Equal(t, 0.7, educationSimilarity("bachelor of science", "bachelor"))
	assert.Equal(t, 0.0, educationSimilarity("phd", "bachelor"))
}

func TestExperienceSimilarity(t *testing.T) {
	t.Run("no job requirement is neutral", func(t *testing.T) {
		assert.Equal(t, 0.6, experienceSimilarity(floatPtr(3), nil))
	})

	t.Run("unknown candidate experience scores 0", func(t *testing.T) {
		assert.Equal(t, 0.0, experienceSimilarity(nil, floatPtr(3)))
	})

	t.Run("exact match scores 1", func(t *testing.T) {
		assert.InDelta(t, 1.0, experienceSimilarity(floatPtr(3), floatPtr(3)), 1e-9)
	})

	t.Run("score decays with distance", func(t *testing.T) {
		close := experienceSimilarity(floatPtr(3), floatPtr(4))
		far := experienceSimilarity(floatPtr(1), floatPtr(4))
		assert.Greater(t, close, far)
	})

	t.Run("difference at or beyond requirement scores 0", func(t *testing.T) {
		assert.Equal(t, 0.0, experienceSimilarity(floatPtr(0), floatPtr(2)))
		assert.Equal(t, 0.0, experienceSimilarity(floatPtr(10), floatPtr(4)))
	})
}

func TestFreshnessScore(t *testing.T) {
	e := New(Config{FreshnessHalfLife: 30})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("unknown updated_at is neutral", func(t *testing.T) {
		assert.Equal(t, 0.5, e.freshnessScore(time.Time{}, now))
	})

	t.Run("fresh job scores 1", func(t *testing.T) {
		assert.Equal(t, 1.0, e.freshnessScore(now, now))
	})

	t.Run("half-life halves the score", func(t *testing.T) {
		assert.InDelta(t, 0.5, e.freshnessScore(now.AddDate(0, 0, -30), now), 1e-9)
		assert.InDelta(t, 0.25, e.freshnessScore(now.AddDate(0, 0, -60), now), 1e-9)
	})
}

func TestNormaliseWeights(t *testing.T) {
	t.Run("scales to sum 1", func(t *testing.T) {
		out := NormaliseWeights(map[string]float64{"embedding": 2, "skills": 2})
		assert.InDelta(t, 0.5, out["embedding"], 1e-9)
		assert.InDelta(t, 0.5, out["skills"], 1e-9)
	})

	t.Run("negative weights clamp to zero", func(t *testing.T) {
		out := NormaliseWeights(map[string]float64{"embedding": 1, "skills": -5})
		assert.InDelta(t, 1.0, out["embedding"], 1e-9)
		assert.Equal(t, 0.0, out["skills"])
	})

	t.Run("all zero falls back to embedding", func(t *testing.T) {
		out := NormaliseWeights(map[string]float64{"embedding": 0, "skills": 0})
		assert.Equal(t, 1.0, out["embedding"])
		assert.Equal(t, 0.0, out["skills"])
	})

	t.Run("defaults sum to 1", func(t *testing.T) {
		total := 0.0
		for _, v := range DefaultWeights() {
			total += v
		}
		assert.InDelta(t, 1.0, total, 1e-9)
	})
}

func TestEngineCompute(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	newEngine := func() *Engine {
		e := New(Config{Dimension: 3, CacheTTL: time.Minute, CacheMaxEntries: 8})
		e.now = func() time.Time { return now }
		return e
	}

	candidate := Candidate{
		Embedding:       []float64{1, 0, 0},
		Skills:          []string{"go", "sql"},
		Education:       "bachelor",
		ExperienceYears: floatPtr(2),
	}

	t.Run("ranks jobs by score descending", func(t *testing.T) {
		e := newEngine()
		jobs := []JobInput{
			{ID: "weak", Embedding: []float64{0, 1, 0}, Skills: []string{"java"}, UpdatedAt: now},
			{ID: "strong", Embedding: []float64{1, 0, 0}, Skills: []string{"go", "sql"}, Education: "bachelor", ExperienceYears: floatPtr(2), UpdatedAt: now},
		}
		results, err := e.Compute(candidate, jobs, Options{MinScore: 0.01})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "strong", results[0].ID)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("perfect match scores 1", func(t *testing.T) {
		e := newEngine()
		jobs := []JobInput{
			{ID: "perfect", Embedding: []float64{1, 0, 0}, Skills: []string{"go", "sql"}, Education: "bachelor", ExperienceYears: floatPtr(2), UpdatedAt: now},
		}
		results, err := e.Compute(candidate, jobs, Options{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.InDelta(t, 1.0, results[0].Score, 1e-4)
	})

	t.Run("filters below min score", func(t *testing.T) {
		e := newEngine()
		jobs := []JobInput{
			{ID: "off", Embedding: []float64{0, 1, 0}, Skills: []string{"cobol"}, Education: "phd", ExperienceYears: floatPtr(20), UpdatedAt: now},
		}
		results, err := e.Compute(candidate, jobs, Options{MinScore: 0.9})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("truncates to limit", func(t *testing.T) {
		e := newEngine()
		jobs := make([]JobInput, 5)
		for i := range jobs {
			jobs[i] = JobInput{ID: string(rune('a' + i)), Embedding: []float64{1, 0, 0}, Skills: []string{"go"}, UpdatedAt: now}
		}
		results, err := e.Compute(candidate, jobs, Options{MinScore: 0.01, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("duplicate job ids are scored once", func(t *testing.T) {
		e := newEngine()
		jobs := []JobInput{
			{ID: "dup", Embedding: []float64{1, 0, 0}, UpdatedAt: now},
			{ID: "dup", Embedding: []float64{0, 1, 0}, UpdatedAt: now},
		}
		results, err := e.Compute(candidate, jobs, Options{MinScore: 0.01})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("jobs without embeddings are skipped", func(t *testing.T) {
		e := newEngine()
		jobs := []JobInput{
			{ID: "unembedded", UpdatedAt: now},
		}
		results, err := e.Compute(candidate, jobs, Options{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("wrong candidate dimension errors", func(t *testing.T) {
		e := newEngine()
		_, err := e.Compute(Candidate{Embedding: []float64{1, 0}}, nil, Options{})
		assert.Error(t, err)
	})

	t.Run("empty candidate embedding errors", func(t *testing.T) {
		e := newEngine()
		_, err := e.Compute(Candidate{}, nil, Options{})
		assert.Error(t, err)
	})
}

func TestResultCache(t *testing.T) {
	t.Run("expired entries are evicted on read", func(t *testing.T) {
		c := newResultCache(10*time.Millisecond, 4)
		c.set("k", []Result{{ID: "a", Score: 1}})

		got, ok := c.get("k")
		require.True(t, ok)
		assert.Len(t, got, 1)

		time.Sleep(20 * time.Millisecond)
		_, ok = c.get("k")
		assert.False(t, ok)
	})

	t.Run("oldest entry is evicted at capacity", func(t *testing.T) {
		c := newResultCache(time.Minute, 2)
		c.set("a", nil)
		c.set("b", nil)
		c.set("c", nil)

		assert.Equal(t, 2, c.len())
		_, ok := c.get("a")
		assert.False(t, ok)
		_, ok = c.get("c")
		assert.True(t, ok)
	})

	t.Run("get refreshes recency", func(t *testing.T) {
		c := newResultCache(time.Minute, 2)
		c.set("a", nil)
		c.set("b", nil)
		c.get("a")
		c.set("c", nil)

		_, ok := c.get("a")
		assert.True(t, ok)
		_, ok = c.get("b")
		assert.False(t, ok)
	})

	t.Run("identical inputs share a cache key", func(t *testing.T) {
		cand := Candidate{Embedding: []float64{1, 2}, Skills: []string{"go"}}
		jobs := []JobInput{{ID: "j", Embedding: []float64{1, 2}}}
		w := DefaultWeights()
		k1 := cacheKey(cand, jobs, 0.3, 50, w)
		k2 := cacheKey(cand, jobs, 0.3, 50, w)
		assert.Equal(t, k1, k2)

		k3 := cacheKey(cand, jobs, 0.4, 50, w)
		assert.NotEqual(t, k1, k3)
	})
}
