// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and every returned Cmd is run inline. Cmds that
// do not return within a short timeout (tea.Tick, tea.Every) are counted as
// pending and dropped, so a ticking model can be stepped by sending its tick
// message by hand.
package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds a single Send may run.
const MaxDrainDepth = 100

// cmdTimeout separates immediate Cmds (use-case calls against an in-memory
// database) from timer Cmds, which block for at least their interval.
const cmdTimeout = 50 * time.Millisecond

// Driver is a synchronous harness for a tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once tea.Quit has been returned.
	Quitting bool
	// Pending counts timer Cmds that were dropped instead of awaited.
	Pending int
}

// New creates a Driver. Call Init to run the model's Init command.
func New(t *testing.T, model tea.Model) *Driver {
	t.Helper()
	return &Driver{T: t, Model: model}
}

// Init runs the model's Init command and drains the results.
func (d *Driver) Init() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

// Press sends each rune of keys as a separate key event.
func (d *Driver) Press(keys string) {
	d.T.Helper()
	for _, r := range keys {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// PressCtrlC sends Ctrl+C.
func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
}

// View returns the model's rendered output.
func (d *Driver) View() string {
	return d.Model.View()
}

// As returns the driver's current model as T, failing the test if the model
// has a different type.
func As[T tea.Model](d *Driver) T {
	d.T.Helper()
	m, ok := d.Model.(T)
	if !ok {
		d.T.Fatalf("teatest: model is %T", d.Model)
	}
	return m
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg, ok := run(cmd)
	if !ok {
		d.Pending++
		return
	}

	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drain(next, depth+1)
}

// run executes cmd, giving up after cmdTimeout. ok is false on timeout.
func run(cmd tea.Cmd) (msg tea.Msg, ok bool) {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}
