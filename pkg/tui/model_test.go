// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bascanada/fhirquery/pkg/fhir/search"
)

func typeString(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModelUpdate_TypingRevalidates(t *testing.T) {
	model := New(nil)
	model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	typeString(model, "/Patient?name=Jan")

	if !model.Result.Valid {
		t.Errorf("Expected valid result after typing a valid query, got %+v", model.Result)
	}
	if model.Result.Parsed == nil || model.Result.Parsed.ResourceType != "Patient" {
		t.Errorf("Expected parsed resource type Patient, got %+v", model.Result.Parsed)
	}
}

func TestModelUpdate_InvalidQueryShowsErrors(t *testing.T) {
	model := New(nil)
	model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	typeString(model, "/Patient?_count=abc")

	if model.Result.Valid {
		t.Errorf("Expected invalid result, got valid")
	}
	if len(model.Result.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(model.Result.Errors))
	}
}

func TestModelUpdate_ClearResetsInput(t *testing.T) {
	model := New(nil)
	model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	typeString(model, "/Patient?_count=abc")
	model.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if model.input.Value() != "" {
		t.Errorf("Expected empty input after clear, got %q", model.input.Value())
	}
	if !model.Result.Valid {
		t.Errorf("Expected valid result for empty query, got %+v", model.Result)
	}
}

func TestModelUpdate_CustomValidator(t *testing.T) {
	v := search.New(search.Options{ResourceTypes: []string{"Widget"}})
	model := New(v)
	model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	typeString(model, "/Widget")

	if len(model.Result.Warnings) != 0 {
		t.Errorf("Expected no warnings for configured type, got %+v", model.Result.Warnings)
	}
}

func TestModelView_RendersVerdict(t *testing.T) {
	model := New(nil)
	model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	typeString(model, "/Patient")

	view := model.View()
	if view == "" {
		t.Errorf("Expected non-empty view")
	}
}

// Ensure the model satisfies the tea interface.
var _ tea.Model = (*Model)(nil)
