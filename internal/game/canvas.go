package game

import "github.com/pkg/errors"

type Tool string

const (
	Pen    Tool = "pen"
	Eraser Tool = "eraser"
)

var (
	ErrStrokeInProgress = errors.New("a stroke is already in progress")
	ErrNoStroke         = errors.New("no stroke in progress")
	ErrUnknownTool      = errors.New("unknown tool")
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Stroke struct {
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Tool   Tool    `json:"tool"`
}

// Canvas records completed strokes on a linear undo/redo history. Points of
// the stroke being drawn are kept apart until EndStroke.
type Canvas struct {
	history []Stroke
	redo    []Stroke
	current *Stroke
}

func (c *Canvas) BeginStroke(color string, width float64, tool Tool) error {
	if c.current != nil {
		return ErrStrokeInProgress
	}
	if tool != Pen && tool != Eraser {
		return errors.Wrapf(ErrUnknownTool, "%q", tool)
	}
	c.current = &Stroke{Color: color, Width: width, Tool: tool}
	return nil
}

func (c *Canvas) AddPoint(p Point) error {
	if c.current == nil {
		return ErrNoStroke
	}
	c.current.Points = append(c.current.Points, p)
	return nil
}

// EndStroke commits the current stroke. A new stroke clears the redo stack.
func (c *Canvas) EndStroke() error {
	if c.current == nil {
		return ErrNoStroke
	}
	c.history = append(c.history, *c.current)
	c.current = nil
	c.redo = nil
	return nil
}

// Undo moves the last completed stroke to the redo stack.
func (c *Canvas) Undo() bool {
	if len(c.history) == 0 {
		return false
	}
	last := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	c.redo = append(c.redo, last)
	return true
}

func (c *Canvas) Redo() bool {
	if len(c.redo) == 0 {
		return false
	}
	last := c.redo[len(c.redo)-1]
	c.redo = c.redo[:len(c.redo)-1]
	c.history = append(c.history, last)
	return true
}

// Strokes returns the completed strokes, oldest first.
func (c *Canvas) Strokes() []Stroke {
	return append([]Stroke(nil), c.history...)
}

func (c *Canvas) CanUndo() bool { return len(c.history) > 0 }
func (c *Canvas) CanRedo() bool { return len(c.redo) > 0 }
