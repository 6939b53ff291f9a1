package domain

import "strings"

// Quiz modes as stored in the catalog.
const (
	// ModeInput is the submission flow: players type answers, the engine
	// grades them and keeps score.
	ModeInput = "input"
	// ModeView is the flash-card flow: answers are revealed on request,
	// nothing is graded or timed.
	ModeView = "view"
)

// Question is one prompt/answer pair within a quiz, immutable for the
// lifetime of an attempt.
type Question struct {
	Seq             int      `json:"seq"`
	Prompt          string   `json:"prompt"`
	AcceptedAnswers []string `json:"acceptedAnswers"`
	// RequiredMatches is how many distinct accepted answers the player
	// must supply to earn credit. Values below 1 are treated as 1.
	RequiredMatches int    `json:"requiredMatches"`
	StrictMatch     bool   `json:"strictMatch"`
	Explanation     string `json:"explanation,omitempty"`
	MediaURL        string `json:"mediaUrl,omitempty"`
}

// QuizSettings controls how an attempt is run.
type QuizSettings struct {
	Mode             string `json:"mode"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
	TimeLimitEnabled bool   `json:"timeLimitEnabled"`
}

// DefaultSettings are substituted when the settings record cannot be
// loaded; a broken settings row should not take the whole quiz down.
func DefaultSettings() QuizSettings {
	return QuizSettings{
		Mode:             ModeInput,
		TimeLimitSeconds: 20,
		TimeLimitEnabled: true,
	}
}

// QuizInfo is a catalog entry for the quiz selection screen.
type QuizInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Creator     string `json:"creator,omitempty"`
	Description string `json:"description,omitempty"`
	Mode        string `json:"mode"`
	// Thumbnail is a data URL (base64) when the bundle carries an image.
	Thumbnail string `json:"thumbnail,omitempty"`
}

// QuizBundle groups everything persisted about one quiz.
type QuizBundle struct {
	Info      QuizInfo     `json:"info"`
	Settings  QuizSettings `json:"settings"`
	Questions []Question   `json:"questions"`
}

// GradeOutcome reports how a single question was resolved.
type GradeOutcome struct {
	Index       int      `json:"index"`
	Correct     bool     `json:"correct"`
	MatchCount  int      `json:"matchCount"`
	TimedOut    bool     `json:"timedOut"`
	Accepted    []string `json:"accepted"`
	Explanation string   `json:"explanation,omitempty"`
}

// AttemptResult is the final summary of a finished attempt.
type AttemptResult struct {
	RawScore   int `json:"score"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// AnswerSeparator delimits accepted answers in the stored answer string.
// Uploads use the "prompt | answer" line format, with further pipes
// separating alternative answers.
const AnswerSeparator = "|"

// ParseAnswerList splits a stored answer string into its accepted-answer
// tokens, dropping empty pieces.
func ParseAnswerList(raw string) []string {
	parts := strings.Split(raw, AnswerSeparator)
	answers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			answers = append(answers, p)
		}
	}
	return answers
}
