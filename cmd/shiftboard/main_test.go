package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/shiftboard/internal/board"
	"github.com/JonMunkholm/shiftboard/internal/grid"
)

func TestRenderPage(t *testing.T) {
	tests := []struct {
		page  string
		style grid.TimeStyle
		want  []string
	}{
		{"shifts", grid.TimeCompact, []string{
			`data-testid="ShiftTable-cell-row-0-col-day"`,
			`>Monday</td>`,
			`>8AM</td>`,
		}},
		{"shifts", grid.TimePadded, []string{`>08:00AM</td>`}},
		{"users", grid.TimeCompact, []string{`id="UsersTable"`}},
		{"rides", grid.TimeCompact, []string{`id="RideTable"`, `>Delete</button>`}},
	}

	for _, tt := range tests {
		t.Run(tt.page+"/"+string(tt.style), func(t *testing.T) {
			var buf bytes.Buffer
			if err := renderPage(context.Background(), &buf, tt.page, tt.style); err != nil {
				t.Fatalf("renderPage: %v", err)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q", want)
				}
			}
		})
	}
}

func TestRenderPage_Unknown(t *testing.T) {
	err := renderPage(context.Background(), &bytes.Buffer{}, "payroll", grid.TimeCompact)
	if !errors.Is(err, board.ErrUnknownPage) {
		t.Errorf("err = %v, want ErrUnknownPage", err)
	}
}

func TestRenderCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"render", "shifts", "--time-style", "padded"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "08:00AM") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRenderCommand_BadStyle(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"render", "shifts", "--time-style", "military"})

	if err := root.Execute(); err == nil {
		t.Error("expected error for unknown time style")
	}
}

func TestRenderCommand_NeedsPage(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"render"})

	if err := root.Execute(); err == nil {
		t.Error("expected error without a page argument")
	}
}
