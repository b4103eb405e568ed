package pages

import (
	"github.com/JonMunkholm/shiftboard/internal/backend"
	"github.com/JonMunkholm/shiftboard/internal/board"
	"github.com/JonMunkholm/shiftboard/internal/core"
	"github.com/JonMunkholm/shiftboard/internal/grid"
)

// Rides lists ride requests. Rows can be deleted.
func Rides() board.Definition {
	return board.Definition{
		Key:     "rides",
		Title:   "Ride Requests",
		TestID:  "RideTable",
		Order:   3,
		Fetch:   core.Request{Method: core.MethodGet, URL: string(RidesKey)},
		Columns: rideColumns,
	}
}

func rideColumns(deps board.Deps) ([]grid.Descriptor, error) {
	del, err := backend.NewMutation(deps.Client, deps.Cache, backend.MutationSpec{
		Method:      core.MethodDelete,
		URLTemplate: "/api/ride_request",
		Params:      idParam,
		Invalidates: []core.CacheKey{RidesKey},
	})
	if err != nil {
		return nil, err
	}

	return []grid.Descriptor{
		grid.Column{Header: "id", Accessor: "id"},
		grid.Column{Header: "Student", Accessor: "student"},
		grid.Column{Header: "Day", Accessor: "day"},
		grid.ClockColumn("Start", "start", deps.TimeStyle),
		grid.ClockColumn("End", "end", deps.TimeStyle),
		grid.Column{Header: "Pick Up", Accessor: "pickup"},
		grid.Column{Header: "Drop Off", Accessor: "dropoff"},
		grid.Column{Header: "Room", Accessor: "room"},
		grid.Column{Header: "Course", Accessor: "course"},
		grid.Action{ID: "Delete", Label: "Delete", Style: grid.StyleDanger, OnInvoke: del.Do, TestTag: "RideTable"},
	}, nil
}
