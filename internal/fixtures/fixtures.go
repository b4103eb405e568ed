// Package fixtures holds sample backend records for tests and the render
// command.
package fixtures

import "github.com/JonMunkholm/shiftboard/internal/core"

// ThreeShifts returns three driver shifts.
func ThreeShifts() []core.Row {
	return []core.Row{
		core.NewRow(
			"id", 1,
			"day", "Monday",
			"shiftStart", "8AM",
			"shiftEnd", "11AM",
			"driverID", 1,
			"driverBackupID", 3,
		),
		core.NewRow(
			"id", 2,
			"day", "Tuesday",
			"shiftStart", "11AM",
			"shiftEnd", "2PM",
			"driverID", 2,
			"driverBackupID", 1,
		),
		core.NewRow(
			"id", 3,
			"day", "Thursday",
			"shiftStart", "3PM",
			"shiftEnd", "6PM",
			"driverID", 3,
			"driverBackupID", 2,
		),
	}
}

// ThreeUsers returns three users with mixed admin and driver flags.
func ThreeUsers() []core.Row {
	return []core.Row{
		core.NewRow(
			"id", 1,
			"givenName", "Phill",
			"familyName", "Conrad",
			"email", "phtcon@ucsb.edu",
			"admin", true,
			"driver", false,
		),
		core.NewRow(
			"id", 2,
			"givenName", "Phill",
			"familyName", "Conrad",
			"email", "phtcon2@ucsb.edu",
			"admin", false,
			"driver", true,
		),
		core.NewRow(
			"id", 3,
			"givenName", "Pat",
			"familyName", "Lee",
			"email", "plee@ucsb.edu",
			"admin", false,
			"driver", false,
		),
	}
}

// ThreeRides returns three ride requests.
func ThreeRides() []core.Row {
	return []core.Row{
		core.NewRow(
			"id", 1,
			"student", "CGaucho",
			"day", "Monday",
			"start", "3:30PM",
			"end", "4:45PM",
			"pickup", "Phelps",
			"dropoff", "HSSB",
			"room", "1215",
			"course", "CMPSC 156",
		),
		core.NewRow(
			"id", 2,
			"student", "LDelPlaya",
			"day", "Tuesday",
			"start", "11AM",
			"end", "12:15PM",
			"pickup", "Storke Tower",
			"dropoff", "Girvetz",
			"room", "1004",
			"course", "MATH 3B",
		),
		core.NewRow(
			"id", 3,
			"student", "AStorke",
			"day", "Thursday",
			"start", "9AM",
			"end", "9:50AM",
			"pickup", "Anacapa",
			"dropoff", "Phelps",
			"room", "3526",
			"course", "PSTAT 120A",
		),
	}
}
