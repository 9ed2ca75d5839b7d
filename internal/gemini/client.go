// Package gemini wraps the Gemini API for assessment question generation
// and application feedback.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ClientConfig holds Gemini client configuration.
type ClientConfig struct {
	APIKey      string
	Model       string
	Temperature float32
}

// Client wraps the Gemini API client.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	config ClientConfig
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	model.ResponseMIMEType = "application/json"

	return &Client{
		client: client,
		model:  model,
		config: cfg,
	}, nil
}

// Close closes the Gemini client.
func (c *Client) Close() error {
	return c.client.Close()
}

// GenerateAssessmentQuestions generates multiple-choice questions for the given skills.
// The attempt number varies the question set across retakes.
func (c *Client) GenerateAssessmentQuestions(ctx context.Context, skills []string, attempt, numQuestions int) ([]models.AssessmentQuestion, error) {
	start := time.Now()

	if numQuestions <= 0 {
		numQuestions = 5
	}

	prompt := buildQuestionPrompt(skills, attempt, numQuestions)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	questions, err := parseQuestions(text)
	if err != nil {
		return nil, err
	}

	slog.Debug("Assessment questions generated",
		"duration_ms", time.Since(start).Milliseconds(),
		"count", len(questions),
		"attempt", attempt,
	)

	return questions, nil
}

// Feedback is AI feedback on an unsuccessful application.
type Feedback struct {
	Feedback        string   `json:"feedback"`
	SkillGaps       []string `json:"skill_gaps"`
	Recommendations []string `json:"recommendations"`
}

// GenerateFeedback compares a graduate against job requirements and produces
// constructive feedback text.
func (c *Client) GenerateFeedback(ctx context.Context, gradSkills []string, gradEducation string, jobSkills []string, jobTitle, jobEducation string) (*Feedback, error) {
	start := time.Now()

	prompt := buildFeedbackPrompt(gradSkills, gradEducation, jobSkills, jobTitle, jobEducation)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var result Feedback
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		text = extractJSONFromMarkdown(text)
		if err := json.Unmarshal([]byte(text), &result); err != nil {
			return nil, fmt.Errorf("failed to parse Gemini response: %w", err)
		}
	}

	if strings.TrimSpace(result.Feedback) == "" {
		return nil, fmt.Errorf("feedback response is missing narrative content")
	}

	slog.Debug("Application feedback generated",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &result, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	return extractText(resp.Candidates[0].Content.Parts), nil
}

func buildQuestionPrompt(skills []string, attempt, numQuestions int) string {
	skillList := serialiseSkills(skills)
	if skillList == "" {
		skillList = "general web development"
	}

	return fmt.Sprintf(`You are an experienced technical interviewer. Draft %d multiple-choice questions that assess a graduate's proficiency with the following skills: %s.

Attempt number: %d. Ensure this set differs from earlier attempts by varying the focus and wording.

Guidelines:
- Each question must emphasise one primary skill; reflect that in the "skill" field.
- Provide 4 distinct answer options per question.
- Include exactly one correct answer per question, matching one of the options verbatim.
- Avoid trivial definitions; prefer practical, scenario-based questions when possible.

Respond with JSON in the following shape:
{
  "questions": [
    {
      "question": "Question text",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "Correct option (must match one entry in options)",
      "skill": "Primary skill assessed"
    }
  ]
}`, numQuestions, skillList, attempt)
}

func buildFeedbackPrompt(gradSkills []string, gradEducation string, jobSkills []string, jobTitle, jobEducation string) string {
	if gradEducation == "" {
		gradEducation = "Not specified"
	}
	if jobEducation == "" {
		jobEducation = "Not specified"
	}

	return fmt.Sprintf(`You are an expert career counsellor. Compare the graduate's background with the job requirements and produce an honest yet constructive review.

Graduate Profile:
- Skills: %s
- Education: %s

Job: %s
- Required Skills: %s
- Education: %s

Respond only with valid JSON using this schema:
{
  "feedback": "A concise narrative (max 3 paragraphs)",
  "skill_gaps": ["Skill gap summary (sentence case)"],
  "recommendations": ["Actionable recommendation (sentence case)"]
}

Ensure that each list contains between 2 and 5 items. Do not include Markdown code fences or extra commentary.`,
		serialiseSkills(gradSkills), gradEducation, jobTitle, serialiseSkills(jobSkills), jobEducation)
}

// parseQuestions validates and normalises the generated question set.
// Questions with missing text, fewer than two options or an answer that does
// not match any option are dropped.
func parseQuestions(payload string) ([]models.AssessmentQuestion, error) {
	var data struct {
		Questions []models.AssessmentQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		payload = extractJSONFromMarkdown(payload)
		if err := json.Unmarshal([]byte(payload), &data); err != nil {
			return nil, fmt.Errorf("failed to parse question JSON: %w", err)
		}
	}

	if len(data.Questions) == 0 {
		return nil, fmt.Errorf("question generation returned no questions")
	}

	normalised := make([]models.AssessmentQuestion, 0, len(data.Questions))
	for _, q := range data.Questions {
		q.Question = strings.TrimSpace(q.Question)
		q.Answer = strings.TrimSpace(q.Answer)
		q.Skill = strings.TrimSpace(q.Skill)

		options := make([]string, 0, len(q.Options))
		for _, opt := range q.Options {
			if trimmed := strings.TrimSpace(opt); trimmed != "" {
				options = append(options, trimmed)
			}
		}
		q.Options = options

		if q.Question == "" || len(q.Options) < 2 || q.Answer == "" {
			continue
		}

		if !containsOption(q.Options, q.Answer) {
			// The model sometimes differs by case; try a relaxed match.
			matched := ""
			for _, opt := range q.Options {
				if strings.EqualFold(opt, q.Answer) {
					matched = opt
					break
				}
			}
			if matched == "" {
				continue
			}
			q.Answer = matched
		}

		normalised = append(normalised, q)
	}

	if len(normalised) == 0 {
		return nil, fmt.Errorf("no valid questions were generated")
	}

	return normalised, nil
}

func containsOption(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}

func serialiseSkills(skills []string) string {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	unique := make([]string, 0, len(set))
	for s := range set {
		unique = append(unique, s)
	}
	sort.Strings(unique)
	return strings.Join(unique, ", ")
}

// extractText extracts text from Gemini response parts.
func extractText(parts []genai.Part) string {
	var texts []string
	for _, part := range parts {
		if text, ok := part.(genai.Text); ok {
			texts = append(texts, string(text))
		}
	}
	return strings.Join(texts, "")
}

// extractJSONFromMarkdown extracts JSON from markdown code blocks.
func extractJSONFromMarkdown(text string) string {
	if start := strings.Index(text, "```json"); start != -1 {
		text = text[start+7:]
		if end := strings.Index(text, "```"); end != -1 {
			return strings.TrimSpace(text[:end])
		}
	}
	if start := strings.Index(text, "```"); start != -1 {
		text = text[start+3:]
		if end := strings.Index(text, "```"); end != -1 {
			return strings.TrimSpace(text[:end])
		}
	}
	if start := strings.Index(text, "{"); start != -1 {
		if end := strings.LastIndex(text, "}"); end != -1 {
			return text[start : end+1]
		}
	}
	return text
}
