package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/notekeeper/internal/service"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		title   string
		content string
		tags    []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		Long: `Create a note from --title, --content and any number of --tag flags.

A note needs a title or some content; if both are blank nothing is saved.`,
		Example: `  notes add --title Groceries --content "Milk, eggs" --tag home`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context, e *service.Engine) error {
				e.BeginCreate()
				e.SetDraftTitle(title)
				e.SetDraftContent(content)
				for _, t := range tags {
					e.AddTag(t)
				}

				note, err := e.Commit(ctx)
				if err != nil {
					return err
				}
				if note == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing saved: title and content are both blank.")
					return nil
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Created note %s\n", note.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Note title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "Note body")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag to attach (repeatable)")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var (
		title   string
		content string
		add     []string
		remove  []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a note's title, content or tags",
		Long: `Edit an existing note. Only the flags you pass change anything:
--title and --content replace those fields, --tag adds a tag and --untag
removes one. Leaving both title and content blank discards the edit.`,
		Example: `  notes edit cv37rs3pp9olc6atsptg --title "Groceries (Sat)" --untag home`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return a.withEngine(cmd, func(ctx context.Context, e *service.Engine) error {
				if err := e.BeginEditID(id); err != nil {
					return err
				}
				if cmd.Flags().Changed("title") {
					e.SetDraftTitle(title)
				}
				if cmd.Flags().Changed("content") {
					e.SetDraftContent(content)
				}
				for _, t := range remove {
					e.RemoveTag(t)
				}
				for _, t := range add {
					e.AddTag(t)
				}

				note, err := e.Commit(ctx)
				if err != nil {
					return err
				}
				if note == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing saved: title and content would both be blank.")
					return nil
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Updated note %s\n", note.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "New body")
	cmd.Flags().StringArrayVar(&add, "tag", nil, "Tag to add (repeatable)")
	cmd.Flags().StringArrayVar(&remove, "untag", nil, "Tag to remove (repeatable)")
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Long:    `Delete a note permanently. Deleting an id that does not exist is not an error.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return a.withEngine(cmd, func(ctx context.Context, e *service.Engine) error {
				if err := e.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", id)
				return nil
			})
		},
	}
}

func newPinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin or unpin a note",
		Long:  `Toggle a note's pin. Pinned notes list before all others.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return a.withEngine(cmd, func(ctx context.Context, e *service.Engine) error {
				if err := e.TogglePin(ctx, id); err != nil {
					return err
				}

				note, err := e.Get(id)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "No note with id %s, nothing to pin.\n", id)
					return nil
				}
				if note.IsPinned {
					fmt.Fprintf(cmd.OutOrStdout(), "Pinned note %s\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Unpinned note %s\n", id)
				}
				return nil
			})
		},
	}
}
