package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"voxlock/internal/credentials"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List enrolled identities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			summaries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No identities enrolled")
				return nil
			}
			fmt.Fprintln(out, identityTable(summaries))
			return nil
		},
	}
}

// identityTable renders enrollment summaries with the template size
// right-aligned and timestamps trimmed to the minute.
func identityTable(summaries []credentials.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Identity", "Template Bytes", "Enrolled", "Updated"})
	for _, summary := range summaries {
		tw.AppendRow(table.Row{
			summary.Identity,
			summary.TemplateSize,
			summary.CreatedAt.Format("2006-01-02 15:04"),
			summary.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <identity>",
		Short: "Remove an identity's enrollment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity := strings.TrimSpace(args[0])
			if identity == "" {
				return errors.New("identity is required")
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), identity); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed enrollment for %s\n", identity)
			return nil
		},
	}
}
