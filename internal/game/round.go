// Package game implements the draw-and-guess learning widget: timed rounds,
// stroke history with undo and redo, hints and scoring. It keeps no state
// beyond the Game value and does no I/O.
package game

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

const (
	MaxHints     = 3
	HintPenalty  = 5
	StreakBonus  = 10
	WrongPenalty = 10
)

var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrNotDrawing        = errors.New("drawing phase is over")
	ErrStillDrawing      = errors.New("guessing opens after the drawing phase")
	ErrRoundOver         = errors.New("round is finished")
	ErrNoHints           = errors.New("no hints left")
)

// DrawingTime is how long the drawing phase lasts.
func (d Difficulty) DrawingTime() time.Duration {
	switch d {
	case Easy:
		return 60 * time.Second
	case Medium:
		return 75 * time.Second
	case Hard:
		return 90 * time.Second
	}
	return 0
}

// BasePoints is awarded for every correct guess.
func (d Difficulty) BasePoints() int {
	switch d {
	case Easy:
		return 50
	case Medium:
		return 75
	case Hard:
		return 100
	}
	return 0
}

func (d Difficulty) Valid() bool {
	return d.DrawingTime() > 0
}

type Phase string

const (
	Drawing  Phase = "drawing"
	Guessing Phase = "guessing"
	Finished Phase = "finished"
)

// Clock returns the current time.
type Clock func() time.Time

// Game carries the running score and streak across rounds.
type Game struct {
	clock  Clock
	score  int
	streak int
}

func NewGame(clock Clock) *Game {
	if clock == nil {
		clock = time.Now
	}
	return &Game{clock: clock}
}

func (g *Game) Score() int  { return g.score }
func (g *Game) Streak() int { return g.streak }

type Round struct {
	game        *Game
	word        Word
	startedAt   time.Time
	doneDrawing bool
	finished    bool
	hintsUsed   int
	canvas      Canvas
}

// StartRound begins the drawing phase for word.
func (g *Game) StartRound(word Word) (*Round, error) {
	if !word.Difficulty.Valid() {
		return nil, errors.Wrapf(ErrUnknownDifficulty, "%q", word.Difficulty)
	}
	return &Round{game: g, word: word, startedAt: g.clock()}, nil
}

// Remaining is the drawing time left, never negative.
func (r *Round) Remaining() time.Duration {
	left := r.word.Difficulty.DrawingTime() - r.game.clock().Sub(r.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

func (r *Round) Phase() Phase {
	switch {
	case r.finished:
		return Finished
	case r.doneDrawing || r.Remaining() == 0:
		return Guessing
	}
	return Drawing
}

// FinishDrawing ends the drawing phase early.
func (r *Round) FinishDrawing() {
	if r.canvas.current != nil {
		_ = r.canvas.EndStroke()
	}
	r.doneDrawing = true
}

func (r *Round) drawing() error {
	if r.Phase() != Drawing {
		return ErrNotDrawing
	}
	return nil
}

func (r *Round) BeginStroke(color string, width float64, tool Tool) error {
	if err := r.drawing(); err != nil {
		return err
	}
	return r.canvas.BeginStroke(color, width, tool)
}

func (r *Round) AddPoint(p Point) error {
	if err := r.drawing(); err != nil {
		return err
	}
	return r.canvas.AddPoint(p)
}

func (r *Round) EndStroke() error {
	if err := r.drawing(); err != nil {
		return err
	}
	return r.canvas.EndStroke()
}

func (r *Round) Undo() bool {
	return r.drawing() == nil && r.canvas.Undo()
}

func (r *Round) Redo() bool {
	return r.drawing() == nil && r.canvas.Redo()
}

func (r *Round) CanUndo() bool { return r.drawing() == nil && r.canvas.CanUndo() }
func (r *Round) CanRedo() bool { return r.drawing() == nil && r.canvas.CanRedo() }

func (r *Round) Strokes() []Stroke {
	return r.canvas.Strokes()
}

func (r *Round) HintsUsed() int { return r.hintsUsed }

// Hint reveals the next clue. Each hint lowers the points of a correct
// guess by HintPenalty.
func (r *Round) Hint() (string, error) {
	if r.finished {
		return "", ErrRoundOver
	}
	if r.hintsUsed >= MaxHints || r.hintsUsed >= len(r.word.Clues) {
		return "", ErrNoHints
	}
	clue := r.word.Clues[r.hintsUsed]
	r.hintsUsed++
	return clue, nil
}

type Result struct {
	Correct bool   `json:"correct"`
	Points  int    `json:"points"`
	Score   int    `json:"score"`
	Streak  int    `json:"streak"`
	Word    string `json:"word"`
}

// Points is the award for a correct guess made with remaining drawing time.
func Points(d Difficulty, remaining time.Duration, streak, hints int) int {
	seconds := int(remaining / time.Second)
	p := d.BasePoints() + seconds/10*10 + streak*StreakBonus - hints*HintPenalty
	if p < 0 {
		return 0
	}
	return p
}

// Guess submits the single answer of the round and finishes it. It is only
// accepted in the guessing phase.
func (r *Round) Guess(answer string) (Result, error) {
	switch r.Phase() {
	case Finished:
		return Result{}, ErrRoundOver
	case Drawing:
		return Result{}, ErrStillDrawing
	}
	r.finished = true
	g := r.game

	if !strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(r.word.Text)) {
		before := g.score
		g.score -= WrongPenalty
		if g.score < 0 {
			g.score = 0
		}
		g.streak = 0
		return Result{Points: g.score - before, Score: g.score, Streak: g.streak, Word: r.word.Text}, nil
	}

	points := Points(r.word.Difficulty, r.Remaining(), g.streak, r.hintsUsed)
	g.score += points
	g.streak++
	return Result{Correct: true, Points: points, Score: g.score, Streak: g.streak, Word: r.word.Text}, nil
}
