package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/service"
)

// exportDoc is the shape written by `notes export`.
type exportDoc struct {
	Theme string       `json:"theme" yaml:"theme"`
	Notes []exportNote `json:"notes" yaml:"notes"`
}

type exportNote struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Tags      []string  `json:"tags" yaml:"tags"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
	IsPinned  bool      `json:"isPinned" yaml:"isPinned"`
}

func toExport(theme model.Theme, notes []model.Note) exportDoc {
	doc := exportDoc{Theme: theme.Name(), Notes: make([]exportNote, len(notes))}
	for i, n := range notes {
		doc.Notes[i] = exportNote(n)
	}
	return doc
}

func newExportCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every note and the theme to stdout",
		Long: `Export the whole collection in storage order (not display order), plus the
theme preference, as JSON or YAML.`,
		Example: `  notes export --format yaml > notes.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}

			return a.withEngine(cmd, func(_ context.Context, e *service.Engine) error {
				doc := toExport(e.Theme(), e.Notes())
				out := cmd.OutOrStdout()

				if format == "yaml" {
					encoder := yaml.NewEncoder(out)
					encoder.SetIndent(2)
					if err := encoder.Encode(doc); err != nil {
						return fmt.Errorf("encoding yaml: %w", err)
					}
					return encoder.Close()
				}

				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(doc)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	return cmd
}
