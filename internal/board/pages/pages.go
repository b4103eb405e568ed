// Package pages registers the board's pages with the board registry.
// Import this package to ensure all pages are registered.
package pages

import (
	"github.com/JonMunkholm/shiftboard/internal/board"
	"github.com/JonMunkholm/shiftboard/internal/core"
)

// Cache keys of the backend collections shown on the board.
const (
	ShiftsKey core.CacheKey = "/api/shift"
	UsersKey  core.CacheKey = "/api/admin/users"
	RidesKey  core.CacheKey = "/api/ride_request/all"
)

func init() {
	board.Register(Shifts())
	board.Register(Users())
	board.Register(Rides())
}

// idParam sends the row's id as the "id" parameter.
func idParam(row core.Row) map[string]string {
	return map[string]string{"id": row.String("id")}
}
