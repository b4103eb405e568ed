package pages

import (
	"github.com/JonMunkholm/shiftboard/internal/backend"
	"github.com/JonMunkholm/shiftboard/internal/board"
	"github.com/JonMunkholm/shiftboard/internal/core"
	"github.com/JonMunkholm/shiftboard/internal/grid"
)

// Shifts is the driver shift schedule.
func Shifts() board.Definition {
	return board.Definition{
		Key:     "shifts",
		Title:   "Shifts",
		TestID:  "ShiftTable",
		Order:   1,
		Fetch:   core.Request{Method: core.MethodGet, URL: string(ShiftsKey)},
		Columns: shiftColumns,
	}
}

// driverParam sends the shift's driver as the "id" parameter; the
// toggle endpoints look up a user, not a shift.
func driverParam(row core.Row) map[string]string {
	return map[string]string{"id": row.String("driverID")}
}

func shiftColumns(deps board.Deps) ([]grid.Descriptor, error) {
	// The toggles change the driver's user record, which the users page
	// shows; shifts are refetched too so driver columns stay current.
	toggleAdmin, err := backend.NewMutation(deps.Client, deps.Cache, backend.MutationSpec{
		Method:      core.MethodPost,
		URLTemplate: "/api/shift/toggleAdmin",
		Params:      driverParam,
		Invalidates: []core.CacheKey{ShiftsKey, UsersKey},
	})
	if err != nil {
		return nil, err
	}
	toggleDriver, err := backend.NewMutation(deps.Client, deps.Cache, backend.MutationSpec{
		Method:      core.MethodPost,
		URLTemplate: "/api/shift/toggleDriver",
		Params:      driverParam,
		Invalidates: []core.CacheKey{ShiftsKey, UsersKey},
	})
	if err != nil {
		return nil, err
	}
	del, err := backend.NewMutation(deps.Client, deps.Cache, backend.MutationSpec{
		Method:      core.MethodDelete,
		URLTemplate: "/api/shift/delete",
		Params:      idParam,
		Invalidates: []core.CacheKey{ShiftsKey},
	})
	if err != nil {
		return nil, err
	}

	return []grid.Descriptor{
		grid.Column{Header: "id", Accessor: "id"},
		grid.Column{Header: "Day", Accessor: "day"},
		grid.ClockColumn("Shift start", "shiftStart", deps.TimeStyle),
		grid.ClockColumn("Shift end", "shiftEnd", deps.TimeStyle),
		grid.Column{Header: "Driver", Accessor: "driverID"},
		grid.Column{Header: "Backup driver", Accessor: "driverBackupID"},
		grid.ButtonColumn("toggle-admin", grid.StylePrimary, toggleAdmin.Do, "ShiftTable"),
		grid.ButtonColumn("toggle-driver", grid.StyleSecondary, toggleDriver.Do, "ShiftTable"),
		grid.Action{ID: "Delete", Label: "Delete", Style: grid.StyleDanger, OnInvoke: del.Do, TestTag: "ShiftTable"},
	}, nil
}
