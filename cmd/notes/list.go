package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/service"
)

func newListCmd(a *app) *cobra.Command {
	var (
		search string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes, pinned first and newest first",
		Long: `List notes in display order: pinned notes first, then by creation time,
newest first. --search keeps notes whose title or content contains the text,
ignoring case.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(_ context.Context, e *service.Engine) error {
				e.SetSearchQuery(search)
				view := e.CurrentView()

				if asJSON {
					encoder := json.NewEncoder(cmd.OutOrStdout())
					encoder.SetIndent("", "  ")
					return encoder.Encode(view)
				}

				renderNotes(cmd.OutOrStdout(), view, paletteFor(e.Theme()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show notes containing this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

// =========================================================================
// RENDERING
// =========================================================================

// palette is the set of colors one theme renders with.
type palette struct {
	pin   *color.Color
	title *color.Color
	tag   *color.Color
	dim   *color.Color
}

// paletteFor follows the stored theme so the terminal output matches what
// the user picked in the web UI: bright colors for dark terminals, deep ones
// for light backgrounds.
func paletteFor(t model.Theme) palette {
	if t.Dark {
		return palette{
			pin:   color.New(color.FgHiYellow, color.Bold),
			title: color.New(color.FgHiWhite, color.Bold),
			tag:   color.New(color.FgHiCyan),
			dim:   color.New(color.FgHiBlack),
		}
	}
	return palette{
		pin:   color.New(color.FgRed, color.Bold),
		title: color.New(color.FgBlue, color.Bold),
		tag:   color.New(color.FgMagenta),
		dim:   color.New(color.FgHiBlack),
	}
}

// renderNotes writes one block per note, with a "* " marker in front of
// pinned titles:
//
//	Groceries  #home  cv37rs3pp9olc6atsptg
//	  Milk, eggs
//	  updated 2024-05-01 09:30
func renderNotes(w io.Writer, notes []model.Note, p palette) {
	if len(notes) == 0 {
		p.dim.Fprintln(w, "No notes.")
		return
	}

	for i, n := range notes {
		if i > 0 {
			fmt.Fprintln(w)
		}

		if n.IsPinned {
			p.pin.Fprint(w, "* ")
		} else {
			fmt.Fprint(w, "  ")
		}

		title := n.Title
		if strings.TrimSpace(title) == "" {
			title = "(untitled)"
		}
		p.title.Fprint(w, title)

		for _, tag := range n.Tags {
			fmt.Fprint(w, "  ")
			p.tag.Fprint(w, "#"+tag)
		}
		fmt.Fprint(w, "  ")
		p.dim.Fprintln(w, n.ID)

		for _, line := range strings.Split(strings.TrimRight(n.Content, "\n"), "\n") {
			if line != "" {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
		p.dim.Fprintf(w, "  updated %s\n", n.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
}
