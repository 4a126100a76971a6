package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/yungbote/pukpuk-backend/internal/cli/confirm"
	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	"github.com/yungbote/pukpuk-backend/internal/platform/apierr"
	"github.com/yungbote/pukpuk-backend/internal/services"
)

func demandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demands",
		Short: "Maintain demand records",
		Long:  `Delete, clear, import and export demand records directly against the store.`,
	}

	// Subcommands
	cmd.AddCommand(demandsClearAllCmd())
	cmd.AddCommand(demandsDeleteCmd())
	cmd.AddCommand(demandsImportCmd())
	cmd.AddCommand(demandsExportCmd())

	return cmd
}

func demandsClearAllCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Delete every demand record of every user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			n, err := a.Repos.Demand.Count(ctx, repos.AllUsers())
			if err != nil {
				return fmt.Errorf("count demands: %w", err)
			}

			dialog, err := confirm.New(confirm.Options{
				ItemName: "all demand data",
				Details:  fmt.Sprintf("%d demand records across all users will be removed.", n),
				OnConfirm: func(ctx context.Context) error {
					res, err := a.Services.Admin.ClearAll(ctx, repos.AllUsers())
					if err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), "Clear failed:", describe(err))
						return err
					}
					if res.DeletedCount == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No demand data to clear")
						return nil
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d demand records\n", res.DeletedCount)
					return nil
				},
				In:  cmd.InOrStdin(),
				Out: cmd.OutOrStdout(),
				Log: a.Log,
			})
			if err != nil {
				return err
			}
			return runDialog(ctx, dialog, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}

func demandsDeleteCmd() *cobra.Command {
	var (
		force  bool
		userID string
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one demand record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			rec, err := a.Services.Demands.Get(ctx, userID, id)
			if err != nil {
				return errors.New(describe(err))
			}

			dialog, err := confirm.New(confirm.Options{
				ItemName: "demand " + id,
				ItemID:   id,
				Details:  fmt.Sprintf("%s: %g %s on %s", rec.ProductName, rec.Quantity, rec.Unit, rec.Date.Format("2006-01-02")),
				Mutation: &deleteMutation{ctx: ctx, demands: a.Services.Demands, userID: userID, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()},
				In:       cmd.InOrStdin(),
				Out:      cmd.OutOrStdout(),
				Log:      a.Log,
			})
			if err != nil {
				return err
			}
			return runDialog(ctx, dialog, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "yes", "y", false, "Skip confirmation prompt")
	cmd.Flags().StringVar(&userID, "user", "", "owner of the record (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func demandsImportCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import demand records from CSV",
		Long:  `Import rows with the header date,productName,productId,quantity,price,unit. A bad row rejects the whole file.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			n, err := a.Services.Transfer.Import(ctx, userID, f)
			if err != nil {
				return errors.New(describe(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d demand records\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "owner of the imported records (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func demandsExportCmd() *cobra.Command {
	var (
		userID string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's demand records as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			n, err := a.Services.Transfer.Export(ctx, userID, w)
			if err != nil {
				return errors.New(describe(err))
			}
			if w != cmd.OutOrStdout() {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d demand records to %s\n", n, out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "owner of the records (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runDialog(ctx context.Context, dialog *confirm.Dialog, force bool) error {
	if force {
		return dialog.Confirm(ctx)
	}
	_, err := dialog.Run(ctx)
	return err
}

// deleteMutation deletes through DemandService on a goroutine and reports the
// outcome to the operator itself.
type deleteMutation struct {
	ctx     context.Context
	demands services.DemandService
	userID  string
	out     io.Writer
	errOut  io.Writer
	pending atomic.Bool
}

func (m *deleteMutation) Mutate(id string, cb confirm.Callbacks) {
	m.pending.Store(true)
	go func() {
		err := m.demands.Delete(m.ctx, m.userID, id)
		m.pending.Store(false)
		if err != nil {
			fmt.Fprintln(m.errOut, "Delete failed:", describe(err))
			cb.OnError(err)
			return
		}
		fmt.Fprintf(m.out, "Deleted demand %s\n", id)
		cb.OnSuccess()
	}()
}

func (m *deleteMutation) Pending() bool { return m.pending.Load() }

// describe renders an error the way the API would show it.
func describe(err error) string {
	if ae, ok := apierr.As(err); ok {
		if ae.Details != "" {
			return ae.Message + ": " + ae.Details
		}
		return ae.Message
	}
	return err.Error()
}
