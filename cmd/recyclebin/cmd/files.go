package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/recyclebin/pkg/lifecycle"
)

func newUploadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path> [name]",
		Short: "Upload a local file into the active store",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err := newApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}

			name := filepath.Base(args[0])
			if len(args) > 1 {
				name = args[1]
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			up, err := a.svc.Upload(cmd.Context(), name, f)
			if err != nil {
				return err
			}
			return a.out.print(up, func(w io.Writer) {
				fmt.Fprintf(w, "uploaded %s (%d bytes)\n", up.Name, up.Size)
			})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "list [active|recycle]",
		Short:     "List entries of a store",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"active", "recycle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}

			store := ""
			if len(args) > 0 {
				store = args[0]
			}
			names, err := a.svc.List(cmd.Context(), store)
			if err != nil {
				return err
			}
			return a.out.print(names, func(w io.Writer) { printNames(w, names) })
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Move an entry to the recycle store",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			name, err := a.svc.SoftDelete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.print(map[string]string{"name": name}, func(w io.Writer) {
				fmt.Fprintf(w, "moved %s to recycle as %s\n", args[0], name)
			})
		},
	}
}

func newRestoreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <name>",
		Short: "Move an entry from the recycle store back to the active store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			name, err := a.svc.Restore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.print(map[string]string{"name": name}, func(w io.Writer) {
				fmt.Fprintf(w, "restored %s as %s\n", args[0], name)
			})
		},
	}
}

type purgeResult struct {
	Removed int      `json:"removed" yaml:"removed"`
	Failed  []string `json:"failed,omitempty" yaml:"failed,omitempty"`
}

func newPurgeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Permanently delete every entry in the recycle store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}

			n, purgeErr := a.svc.Purge(cmd.Context())
			if purgeErr != nil && !errors.Is(purgeErr, lifecycle.ErrPartialPurge) {
				return purgeErr
			}

			res := purgeResult{Removed: n, Failed: lifecycle.FailedEntries(purgeErr)}
			if err := a.out.print(res, func(w io.Writer) {
				fmt.Fprintf(w, "removed %d entries\n", res.Removed)
				for _, name := range res.Failed {
					fmt.Fprintf(w, "failed: %s\n", name)
				}
			}); err != nil {
				return err
			}
			return purgeErr
		},
	}
}
