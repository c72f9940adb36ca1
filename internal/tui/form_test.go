package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/popsim/internal/config"
	"github.com/san-kum/popsim/internal/growth"
	"github.com/san-kum/popsim/internal/viz"
)

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	down      = tea.KeyMsg{Type: tea.KeyDown}
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
	esc       = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestSimulateWithDefaults(t *testing.T) {
	m := New(config.DefaultConfig(), viz.ThemeMinimal)
	m = press(t, m, runes("s"))

	if m.Err() != nil {
		t.Fatalf("unexpected error: %v", m.Err())
	}
	res := m.Result()
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Outcome != growth.Overtaken || res.YearsElapsed != 63 {
		t.Errorf("unexpected result: %s after %d years", res.Outcome, res.YearsElapsed)
	}
	if !strings.Contains(m.View(), "After 63 years") {
		t.Error("view should show the outcome")
	}
}

func TestDefaultsHideFields(t *testing.T) {
	m := New(nil, viz.ThemeMinimal)
	m = press(t, m, down, down)
	if m.cursor != 0 {
		t.Errorf("cursor should stay on the toggle while defaults are on, got %d", m.cursor)
	}
	if strings.Contains(m.View(), "initial population") {
		t.Error("fields should be hidden while defaults are on")
	}
}

func TestEditCustomValues(t *testing.T) {
	m := New(config.DefaultConfig(), viz.ThemeMinimal)

	// switch to custom values, move to rate_a, replace it with 0
	m = press(t, m, enter, down, down, enter)
	if !m.editing {
		t.Fatal("expected edit mode")
	}
	for range m.editBuf {
		m = press(t, m, backspace)
	}
	m = press(t, m, runes("0"), runes("x"), enter)

	if m.params[fieldRateA] != 0 {
		t.Fatalf("expected rate_a 0, got %v", m.params[fieldRateA])
	}
	if m.Input().RateA != 0 {
		t.Error("input should use custom values")
	}

	m = press(t, m, runes("s"))
	if m.Result() == nil || m.Result().Outcome != growth.NeverOvertakes {
		t.Fatal("expected never_overtakes with a zero rate for A")
	}
	if !strings.Contains(m.View(), "never overtakes") {
		t.Error("view should show the failure message")
	}

	m = press(t, m, runes("r"))
	if m.Result() != nil {
		t.Error("reset should clear the result")
	}
}

func TestEditCancel(t *testing.T) {
	m := New(config.DefaultConfig(), viz.ThemeMinimal)
	m = press(t, m, enter, down, enter, runes("9"), esc)

	if m.editing {
		t.Error("esc should leave edit mode")
	}
	if m.params[fieldPopA] != config.DefaultPopulationA {
		t.Errorf("cancelled edit changed value to %v", m.params[fieldPopA])
	}
}

func TestEditRejectsGarbage(t *testing.T) {
	m := New(config.DefaultConfig(), viz.ThemeMinimal)
	m = press(t, m, enter, down, enter, runes("."), runes("."), enter)

	if m.Err() == nil {
		t.Fatal("expected parse error")
	}
	if m.params[fieldPopA] != config.DefaultPopulationA {
		t.Error("invalid edit should keep the previous value")
	}
}

func TestInvalidInputIsRejected(t *testing.T) {
	m := New(config.DefaultConfig(), viz.ThemeMinimal)
	m = press(t, m, enter, down)
	for m.params[fieldPopA] > 0 {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	m = press(t, m, runes("s"))

	if !errors.Is(m.Err(), growth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", m.Err())
	}
	if !strings.Contains(m.View(), "rejected") {
		t.Error("view should show the rejection")
	}
}

func TestQuit(t *testing.T) {
	m := New(nil, viz.ThemeMinimal)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModelCopiesAreSnapshots(t *testing.T) {
	before := press(t, New(config.DefaultConfig(), viz.ThemeMinimal), enter, down)
	after := press(t, before, tea.KeyMsg{Type: tea.KeyRight})

	if after.params[fieldPopA] != config.DefaultPopulationA+1000 {
		t.Fatalf("expected population_a adjusted by one step, got %v", after.params[fieldPopA])
	}
	if before.params[fieldPopA] != config.DefaultPopulationA {
		t.Errorf("earlier model changed to %v", before.params[fieldPopA])
	}
}
