package attempt

import (
	"math"
	"sync"
	"time"

	"quiz-attempt-service/internal/domain"
)

// Sink receives render intents from an Engine: what to show, when the
// clock ticks, how a question was graded, and the final score.
// Callbacks are invoked with the engine lock held and must not call back
// into the engine.
type Sink interface {
	OnQuestionShown(q domain.Question, index, total int)
	OnTick(remaining int)
	OnGraded(outcome domain.GradeOutcome)
	OnFinished(result domain.AttemptResult)
}

// State identifies where an attempt is in its per-question cycle.
type State int

const (
	StateIdle State = iota
	StatePresenting
	StateAwaitingAnswer
	StateRevealing
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePresenting:
		return "presenting"
	case StateAwaitingAnswer:
		return "awaiting-answer"
	case StateRevealing:
		return "revealing"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// Engine drives a single play-through of a quiz: one question at a time
// through present, answer (or time out), reveal, advance. The question
// index only moves forward, each question is graded at most once, and
// once the last question is advanced past the engine is done for good.
type Engine struct {
	mu        sync.Mutex
	questions []domain.Question
	settings  domain.QuizSettings
	sink      Sink

	state    State
	index    int
	score    int
	timer    *countdown
	timerGen int

	tickEvery time.Duration
}

// NewEngine builds an idle engine over a fixed question set. Empty
// question sets are rejected here so no attempt ever exists without
// something to play.
func NewEngine(questions []domain.Question, settings domain.QuizSettings, sink Sink) (*Engine, error) {
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	if settings.TimeLimitSeconds <= 0 {
		settings.TimeLimitSeconds = domain.DefaultSettings().TimeLimitSeconds
	}
	return &Engine{
		questions: questions,
		settings:  settings,
		sink:      sink,
		tickEvery: time.Second,
	}, nil
}

// NewEngineWithTickInterval is test-only for fast countdowns.
func NewEngineWithTickInterval(questions []domain.Question, settings domain.QuizSettings, sink Sink, tickEvery time.Duration) (*Engine, error) {
	e, err := NewEngine(questions, settings, sink)
	if err != nil {
		return nil, err
	}
	e.tickEvery = tickEvery
	return e, nil
}

// Start shows the first question and, in timed input mode, arms the
// countdown. Valid exactly once, from the idle state.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StateIdle:
	case StateFinished:
		return domain.ErrAttemptFinished
	default:
		return domain.ErrAlreadyStarted
	}
	e.presentLocked()
	return nil
}

// Submit grades the player's typed answer for the active question and
// moves to the reveal phase. Rejected outside the answering window and
// for view-only quizzes.
func (e *Engine) Submit(raw string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateFinished {
		return domain.ErrAttemptFinished
	}
	if e.state != StateAwaitingAnswer {
		return domain.ErrNotAwaitingAnswer
	}
	if e.settings.Mode == domain.ModeView {
		return domain.ErrViewOnly
	}
	e.resolveLocked(raw, false)
	return nil
}

// Reveal resolves the active question without a real submission. In view
// mode it simply uncovers the answer; in input mode it is a forfeit and
// grades the empty submission.
func (e *Engine) Reveal() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateFinished {
		return domain.ErrAttemptFinished
	}
	if e.state != StateAwaitingAnswer {
		return domain.ErrNotAwaitingAnswer
	}
	if e.settings.Mode == domain.ModeView {
		q := e.questions[e.index]
		e.state = StateRevealing
		e.sink.OnGraded(domain.GradeOutcome{
			Index:       e.index,
			Accepted:    q.AcceptedAnswers,
			Explanation: q.Explanation,
		})
		return nil
	}
	e.resolveLocked("", false)
	return nil
}

// Advance moves past the revealed question: on to the next one, or into
// the finished state after the last.
func (e *Engine) Advance() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateFinished {
		return domain.ErrAttemptFinished
	}
	if e.state != StateRevealing {
		return domain.ErrNotRevealing
	}
	if e.index+1 < len(e.questions) {
		e.index++
		e.presentLocked()
		return nil
	}
	e.index++
	e.state = StateFinished
	e.sink.OnFinished(e.resultLocked())
	return nil
}

// Settings returns the settings the attempt runs under, after defaulting.
func (e *Engine) Settings() domain.QuizSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// State reports the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentIndex reports how far the attempt has progressed; it equals the
// question count once the attempt is finished.
func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// Result returns the final summary. Only valid once finished.
func (e *Engine) Result() (domain.AttemptResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateFinished {
		return domain.AttemptResult{}, domain.ErrNotFinished
	}
	return e.resultLocked(), nil
}

// Close cancels any armed countdown. Used when the player walks away
// mid-attempt; safe to call at any time, any number of times.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelTimerLocked()
}

func (e *Engine) presentLocked() {
	e.state = StatePresenting
	q := e.questions[e.index]
	e.sink.OnQuestionShown(q, e.index, len(e.questions))
	e.state = StateAwaitingAnswer
	if e.settings.Mode == domain.ModeInput && e.settings.TimeLimitEnabled {
		e.armTimerLocked()
	}
}

// armTimerLocked starts a fresh countdown stamped with a new generation.
// Callbacks from older generations are ignored, so a cancelled timer can
// never grade a question that was already answered.
func (e *Engine) armTimerLocked() {
	e.timerGen++
	gen := e.timerGen
	e.timer = startCountdown(e.settings.TimeLimitSeconds, e.tickEvery,
		func(remaining int) { e.timerTick(gen, remaining) },
		func() { e.timerExpire(gen) },
	)
}

func (e *Engine) timerTick(gen, remaining int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.timerGen || e.state != StateAwaitingAnswer {
		return
	}
	e.sink.OnTick(remaining)
}

func (e *Engine) timerExpire(gen int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.timerGen || e.state != StateAwaitingAnswer {
		return
	}
	e.resolveLocked("", true)
}

// resolveLocked grades the active question exactly once and enters the
// reveal phase. The countdown is invalidated first, so a tick or expiry
// racing this call finds a stale generation and backs off.
func (e *Engine) resolveLocked(raw string, timedOut bool) {
	e.cancelTimerLocked()
	q := e.questions[e.index]
	success, matches := Grade(q, raw)
	if timedOut {
		// running out of time never scores, whatever leftover input
		// might have matched
		success = false
	}
	if success {
		e.score++
	}
	e.state = StateRevealing
	e.sink.OnGraded(domain.GradeOutcome{
		Index:       e.index,
		Correct:     success,
		MatchCount:  matches,
		TimedOut:    timedOut,
		Accepted:    q.AcceptedAnswers,
		Explanation: q.Explanation,
	})
}

func (e *Engine) cancelTimerLocked() {
	e.timerGen++
	if e.timer != nil {
		e.timer.Cancel()
		e.timer = nil
	}
}

func (e *Engine) resultLocked() domain.AttemptResult {
	total := len(e.questions)
	percentage := int(math.Floor(float64(e.score)/float64(total)*100 + 0.5))
	return domain.AttemptResult{
		RawScore:   e.score,
		Total:      total,
		Percentage: percentage,
	}
}
