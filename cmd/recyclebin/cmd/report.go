package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/recyclebin/pkg/summary"
)

func newSizesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sizes",
		Short: "Show aggregate size of each store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			s, err := a.svc.Sizes(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.print(s, func(w io.Writer) {
				fmt.Fprintf(w, "active:  %s MB (%d bytes)\n", summary.FormatMB(s.ActiveBytes), s.ActiveBytes)
				fmt.Fprintf(w, "recycle: %s MB (%d bytes)\n", summary.FormatMB(s.RecycleBytes), s.RecycleBytes)
			})
		},
	}
}

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [email]",
		Short: "Print a summary of both stores, or email it when an address is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}

			var s summary.Summary
			if len(args) > 0 {
				s, err = a.svc.RequestSummaryNotification(cmd.Context(), args[0])
			} else {
				s, err = a.svc.Summary(cmd.Context())
			}
			if err != nil {
				return err
			}

			return a.out.print(s, func(w io.Writer) {
				fmt.Fprintf(w, "Active files (%s MB):\n", s.ActiveMB())
				printNames(w, s.ActiveEntries)
				fmt.Fprintf(w, "Recycle bin (%s MB):\n", s.RecycleMB())
				printNames(w, s.RecycleEntries)
				for _, name := range s.Skipped {
					fmt.Fprintf(w, "skipped: %s\n", name)
				}
				if len(args) > 0 {
					fmt.Fprintf(w, "sent to %s\n", args[0])
				}
			})
		},
	}
}
