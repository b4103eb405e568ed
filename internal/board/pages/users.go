package pages

import (
	"github.com/JonMunkholm/shiftboard/internal/backend"
	"github.com/JonMunkholm/shiftboard/internal/board"
	"github.com/JonMunkholm/shiftboard/internal/core"
	"github.com/JonMunkholm/shiftboard/internal/grid"
)

// Users lists backend users with their admin and driver flags.
func Users() board.Definition {
	return board.Definition{
		Key:     "users",
		Title:   "Users",
		TestID:  "UsersTable",
		Order:   2,
		Fetch:   core.Request{Method: core.MethodGet, URL: string(UsersKey)},
		Columns: userColumns,
	}
}

func userColumns(deps board.Deps) ([]grid.Descriptor, error) {
	toggleAdmin, err := backend.NewMutation(deps.Client, deps.Cache, backend.MutationSpec{
		Method:      core.MethodPost,
		URLTemplate: "/api/admin/users/toggleAdmin",
		Params:      idParam,
		Invalidates: []core.CacheKey{UsersKey},
	})
	if err != nil {
		return nil, err
	}
	toggleDriver, err := backend.NewMutation(deps.Client, deps.Cache, backend.MutationSpec{
		Method:      core.MethodPost,
		URLTemplate: "/api/admin/users/toggleDriver",
		Params:      idParam,
		Invalidates: []core.CacheKey{UsersKey},
	})
	if err != nil {
		return nil, err
	}

	return []grid.Descriptor{
		grid.Column{Header: "id", Accessor: "id"},
		grid.Column{Header: "First Name", Accessor: "givenName"},
		grid.Column{Header: "Last Name", Accessor: "familyName"},
		grid.Column{Header: "Email", Accessor: "email"},
		grid.Column{Header: "Admin", Accessor: "admin"},
		grid.Column{Header: "Driver", Accessor: "driver"},
		grid.ButtonColumn("toggle-admin", grid.StylePrimary, toggleAdmin.Do, "UsersTable"),
		grid.ButtonColumn("toggle-driver", grid.StyleSecondary, toggleDriver.Do, "UsersTable"),
	}, nil
}
