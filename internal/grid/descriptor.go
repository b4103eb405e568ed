// Package grid turns rows and column descriptors into a renderable table.
//
// Descriptors are a closed set: a [Column] maps a row field to a cell, an
// [Action] adds a button cell that runs a callback with the row. Rendering is
// a pure function of its inputs; see [Render].
package grid

import (
	"context"

	"github.com/JonMunkholm/shiftboard/internal/core"
)

// Style is the visual variant of an action button.
type Style string

const (
	StylePrimary   Style = "primary"
	StyleSecondary Style = "secondary"
	StyleSuccess   Style = "success"
	StyleDanger    Style = "danger"
	StyleWarning   Style = "warning"
)

// Descriptor is either a Column or an Action.
type Descriptor interface {
	descriptorKey() string
	headerText() string
}

// Column maps a row field to a table column.
// Render, when set, replaces the default stringified value.
type Column struct {
	Header   string
	Accessor string
	Render   func(core.Row) string
}

func (c Column) descriptorKey() string { return c.Accessor }
func (c Column) headerText() string    { return c.Header }

func (c Column) cellText(row core.Row) string {
	if c.Render != nil {
		return c.Render(row)
	}
	return row.String(c.Accessor)
}

// ActionFunc runs when an action control is activated.
type ActionFunc func(ctx context.Context, row core.Row) error

// Action is a row-level button. It always renders after the data columns.
type Action struct {
	ID       string
	Label    string // Header and button text; defaults to ID
	Style    Style
	OnInvoke ActionFunc
	TestTag  string // Prefix of the control ID; defaults to the grid test ID
}

func (a Action) descriptorKey() string { return a.ID }

func (a Action) headerText() string {
	if a.Label != "" {
		return a.Label
	}
	return a.ID
}

// ButtonColumn builds an Action whose ID and label are both label.
func ButtonColumn(label string, style Style, fn ActionFunc, testTag string) Action {
	return Action{
		ID:       label,
		Label:    label,
		Style:    style,
		OnInvoke: fn,
		TestTag:  testTag,
	}
}
