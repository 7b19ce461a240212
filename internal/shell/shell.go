// Package shell is an interactive terminal calculator. The result line tracks
// the input as it is typed, and calculations can be saved to and recalled from
// a history.
package shell

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/history"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultMaxInput = 60
	DefaultDebounce = 100 * time.Millisecond
)

// Options configures a shell.
type Options struct {
	Engine   *calc.Engine
	History  *history.History
	Logger   *slog.Logger
	MaxInput int
	// Debounce is how long input must be unchanged before it is evaluated.
	// Negative means evaluate on every change.
	Debounce time.Duration
}

// Model is the bubbletea model of the shell.
type Model struct {
	ctx      context.Context
	engine   *calc.Engine
	hist     *history.History
	log      *slog.Logger
	debounce time.Duration

	input  textinput.Model
	result string
	// seq identifies the latest input change. Only the evaluation scheduled
	// for it updates the result.
	seq int

	// recall is non-nil while the recall list is open.
	recall []history.Item
	sel    int

	status   string
	quitting bool
}

// evalMsg asks for the input to be evaluated if it has not changed since seq.
type evalMsg struct {
	seq int
}

// keypad translates display symbols into expression characters.
var keypad = map[rune]rune{
	'×': '*',
	'÷': '/',
}

// New creates a shell model.
func New(ctx context.Context, opts Options) Model {
	if opts.Engine == nil {
		opts.Engine = calc.NewEngine()
	}
	if opts.History == nil {
		opts.History = history.New(ctx, nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.MaxInput <= 0 {
		opts.MaxInput = DefaultMaxInput
	}
	switch {
	case opts.Debounce == 0:
		opts.Debounce = DefaultDebounce
	case opts.Debounce < 0:
		opts.Debounce = 0
	}
	in := textinput.New()
	in.Prompt = "│ "
	in.Placeholder = "2 + 3 * 4"
	in.CharLimit = opts.MaxInput
	in.Width = opts.MaxInput
	// Clipboard text would bypass the keystroke filter.
	in.KeyMap.Paste.SetEnabled(false)
	in.Focus()
	return Model{
		ctx:      ctx,
		engine:   opts.Engine,
		hist:     opts.History,
		log:      opts.Logger,
		debounce: opts.Debounce,
		input:    in,
		result:   "0",
	}
}

// Input returns the current input text.
func (m Model) Input() string {
	return m.input.Value()
}

// Result returns the displayed result.
func (m Model) Result() string {
	return m.result
}

// Recalling reports whether the recall list is open.
func (m Model) Recalling() bool {
	return m.recall != nil
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case evalMsg:
		if msg.seq == m.seq {
			m.result = m.evaluate()
		}
		return m, nil
	case tea.KeyMsg:
		if m.recall != nil {
			return m.updateRecall(msg)
		}
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyCtrlS:
			return m.save(), nil
		case tea.KeyCtrlR:
			return m.openRecall(), nil
		case tea.KeyCtrlL:
			return m.setInput("")
		case tea.KeyEnter:
			// The result is always showing.
			return m, nil
		case tea.KeyRunes, tea.KeySpace:
			return m.insert(msg.Runes)
		}
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		next, c := m.changed()
		return next, tea.Batch(cmd, c)
	}
	return m, cmd
}

// insert types runes at the cursor. Characters that cannot appear in an
// expression are ignored, and a decimal point is only added where it starts
// or continues a number.
func (m Model) insert(rs []rune) (tea.Model, tea.Cmd) {
	text := []rune(m.input.Value())
	pos := min(m.input.Position(), len(text))
	head, tail := string(text[:pos]), string(text[pos:])
	n := pos
	for _, r := range rs {
		if k, ok := keypad[r]; ok {
			r = k
		}
		if !calc.IsValidInputChar(r) {
			continue
		}
		h := calc.FormatNumberInput(head, r)
		k := len([]rune(h))
		if k-n+len(text) > m.input.CharLimit {
			break
		}
		text = append([]rune(h), []rune(tail)...)
		head, n = h, k
	}
	if n == pos {
		return m, nil
	}
	m.input.SetValue(head + tail)
	m.input.SetCursor(n)
	return m.changed()
}

// setInput replaces the input and moves the cursor to its end.
func (m Model) setInput(s string) (tea.Model, tea.Cmd) {
	m.input.SetValue(s)
	m.input.CursorEnd()
	if s == "" {
		m.status = ""
	}
	return m.changed()
}

// changed schedules evaluation of the new input.
func (m Model) changed() (Model, tea.Cmd) {
	m.seq++
	if m.debounce <= 0 {
		m.result = m.evaluate()
		return m, nil
	}
	seq := m.seq
	return m, tea.Tick(m.debounce, func(time.Time) tea.Msg { return evalMsg{seq: seq} })
}

func (m Model) evaluate() string {
	expr := strings.TrimSpace(m.input.Value())
	if expr == "" {
		return "0"
	}
	return m.engine.Evaluate(expr)
}

// save records the input and its result. Empty input and zero results are not
// saved.
func (m Model) save() Model {
	expr := strings.TrimSpace(m.input.Value())
	m.result = m.evaluate()
	if expr == "" || m.result == "0" {
		return m
	}
	if err := m.hist.Save(m.ctx, expr, m.result); err != nil {
		m.log.ErrorContext(m.ctx, "save failed", slog.String("expression", expr), slog.Any("err", err))
		m.status = "saved for this session only"
		return m
	}
	m.log.InfoContext(m.ctx, "saved", slog.String("expression", expr), slog.String("result", m.result))
	m.status = "saved " + history.Display(history.Item{Expression: expr, Result: m.result})
	return m
}

func (m Model) openRecall() Model {
	items := m.hist.Items()
	if len(items) == 0 {
		m.status = "nothing saved"
		return m
	}
	m.recall, m.sel = items, 0
	m.status = ""
	return m
}

func (m Model) updateRecall(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyCtrlR:
		m.recall = nil
	case tea.KeyUp, tea.KeyShiftTab:
		m.sel = (m.sel + len(m.recall) - 1) % len(m.recall)
	case tea.KeyDown, tea.KeyTab:
		m.sel = (m.sel + 1) % len(m.recall)
	case tea.KeyEnter:
		it := m.recall[m.sel]
		m.recall = nil
		return m.setInput(it.Expression)
	}
	return m, nil
}
