package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"journal/store"
)

func newListCmd(opts *options) *cobra.Command {
	var (
		category string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := openService(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer st.Close()

			notes, err := svc.ListNotes(cmd.Context(), category)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(notes)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCATEGORY\tTIMESTAMP\tTITLE")
			for _, n := range notes {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.Category, n.Timestamp, n.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only notes in this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print notes as JSON")
	return cmd
}

func newAddCmd(opts *options) *cobra.Command {
	var n store.Note
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(n.Title) == "" || strings.TrimSpace(n.Content) == "" {
				return errors.New("both --title and --content are required")
			}
			now := time.Now().UTC()
			if n.ID == "" {
				n.ID = strconv.FormatInt(now.UnixMilli(), 10)
			}
			n.Timestamp = now.Format("2006-01-02T15:04:05.000Z")

			svc, st, err := openService(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer st.Close()

			created, err := svc.CreateNote(cmd.Context(), n)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created note %s\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&n.ID, "id", "", "note id (default: current time in milliseconds)")
	cmd.Flags().StringVarP(&n.Title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&n.Content, "content", "m", "", "note body")
	cmd.Flags().StringVarP(&n.Category, "category", "c", store.Categories[0], "note category")
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := openService(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := svc.DeleteNote(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note deleted successfully\n")
			return nil
		},
	}
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Print the note categories offered by the UI",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, c := range store.Categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
		},
	}
}
