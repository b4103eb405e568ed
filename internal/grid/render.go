package grid

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/JonMunkholm/shiftboard/internal/core"
)

var (
	// ErrUnknownControl is returned when activating a control the grid lacks.
	ErrUnknownControl = errors.New("unknown control")
	// ErrStaleRow is returned when a control now sits on a different record
	// than the one the caller saw.
	ErrStaleRow = errors.New("stale row")
)

// RowIDField is the row field that identifies a record across refetches.
const RowIDField = "id"

// Grid is the rendered form of a table.
type Grid struct {
	TestID  string       `json:"testId"`
	Headers []HeaderCell `json:"headers"`
	Rows    [][]Cell     `json:"rows"`
}

// HeaderCell is one column header.
type HeaderCell struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Text   string `json:"text"`
	Action bool   `json:"action,omitempty"`
}

// Cell is one table cell. Control is set for action cells.
type Cell struct {
	ID      string   `json:"id"`
	Row     int      `json:"row"`
	Key     string   `json:"key"`
	Text    string   `json:"text"`
	Control *Control `json:"control,omitempty"`
}

// Control is the button inside an action cell, bound to its row.
// RowID is the row's RowIDField value, empty when the row has none.
type Control struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Style Style  `json:"style"`
	RowID string `json:"rowId,omitempty"`

	row    core.Row
	invoke ActionFunc
}

// Activate runs the action's callback once with the control's row.
func (c *Control) Activate(ctx context.Context) error {
	if c.invoke == nil {
		return nil
	}
	return c.invoke(ctx, c.row)
}

// CellID returns the stable identifier of a cell: {testID}-cell-row-{i}-col-{key}.
func CellID(testID string, row int, key string) string {
	return testID + "-cell-row-" + strconv.Itoa(row) + "-col-" + key
}

// ControlID returns the identifier of an action button within a cell.
func ControlID(testTag string, row int, key string) string {
	return CellID(testTag, row, key) + "-button"
}

// HeaderID returns the identifier of a header cell.
func HeaderID(testID, key string) string {
	return testID + "-header-" + key
}

// Render lays out rows under the given descriptors.
// Data columns keep their relative order; action columns follow them.
// An empty rows slice yields a header-only grid.
func Render(rows []core.Row, descriptors []Descriptor, testID string) Grid {
	ordered := orderDescriptors(descriptors)

	g := Grid{
		TestID:  testID,
		Headers: make([]HeaderCell, len(ordered)),
		Rows:    make([][]Cell, len(rows)),
	}

	for i, d := range ordered {
		_, isAction := d.(Action)
		g.Headers[i] = HeaderCell{
			ID:     HeaderID(testID, d.descriptorKey()),
			Key:    d.descriptorKey(),
			Text:   d.headerText(),
			Action: isAction,
		}
	}

	for ri, row := range rows {
		cells := make([]Cell, len(ordered))
		for ci, d := range ordered {
			key := d.descriptorKey()
			cell := Cell{
				ID:  CellID(testID, ri, key),
				Row: ri,
				Key: key,
			}
			switch desc := d.(type) {
			case Column:
				cell.Text = desc.cellText(row)
			case Action:
				tag := desc.TestTag
				if tag == "" {
					tag = testID
				}
				cell.Text = desc.headerText()
				cell.Control = &Control{
					ID:     ControlID(tag, ri, key),
					Label:  desc.headerText(),
					Style:  desc.Style,
					RowID:  row.String(RowIDField),
					row:    row,
					invoke: desc.OnInvoke,
				}
			}
			cells[ci] = cell
		}
		g.Rows[ri] = cells
	}

	return g
}

func orderDescriptors(descriptors []Descriptor) []Descriptor {
	out := make([]Descriptor, 0, len(descriptors))
	var actions []Descriptor
	for _, d := range descriptors {
		switch desc := d.(type) {
		case Column:
			out = append(out, desc)
		case *Column:
			if desc != nil {
				out = append(out, *desc)
			}
		case Action:
			actions = append(actions, desc)
		case *Action:
			if desc != nil {
				actions = append(actions, *desc)
			}
		}
	}
	return append(out, actions...)
}

// Cell looks a cell up by its ID.
func (g Grid) Cell(id string) (Cell, bool) {
	for _, row := range g.Rows {
		for _, c := range row {
			if c.ID == id {
				return c, true
			}
		}
	}
	return Cell{}, false
}

// Header looks a header up by its text.
func (g Grid) Header(text string) (HeaderCell, bool) {
	for _, h := range g.Headers {
		if h.Text == text {
			return h, true
		}
	}
	return HeaderCell{}, false
}

// Control looks an action control up by its ID.
func (g Grid) Control(id string) (*Control, bool) {
	for _, row := range g.Rows {
		for _, c := range row {
			if c.Control != nil && c.Control.ID == id {
				return c.Control, true
			}
		}
	}
	return nil, false
}

// Activate runs the control with the given ID.
func (g Grid) Activate(ctx context.Context, controlID string) error {
	ctrl, ok := g.Control(controlID)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownControl, controlID)
	}
	return ctrl.Activate(ctx)
}

// ActivateRow runs the control with the given ID only if it is still bound
// to the record rowID. Control IDs carry a row index, so after a refetch the
// same ID can point at another record.
func (g Grid) ActivateRow(ctx context.Context, controlID, rowID string) error {
	ctrl, ok := g.Control(controlID)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownControl, controlID)
	}
	if ctrl.RowID != rowID {
		return fmt.Errorf("%w: %s is on record %q, not %q", ErrStaleRow, controlID, ctrl.RowID, rowID)
	}
	return ctrl.Activate(ctx)
}
