package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jengzang/hcip-dashboard-go/internal/errors"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
)

type refreshFlags struct {
	JSON bool
}

func newRefreshCmd(rt *runtime) *cobra.Command {
	flags := &refreshFlags{}
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Force one reload from every source and snapshot the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefresh(cmd.Context(), rt, cmd.OutOrStdout(), flags)
		},
	}
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "print the result as JSON")
	return cmd
}

func runRefresh(ctx context.Context, rt *runtime, w io.Writer, flags *refreshFlags) error {
	a, err := newApp(ctx, rt.cfg, rt.logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	res := a.store.Load(ctx, true)

	if flags.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "run:      %s\n", res.RunID)
		fmt.Fprintf(w, "outcome:  %s\n", res.Outcome)
		fmt.Fprintf(w, "tasks:    %d\n", res.TaskRows)
		fmt.Fprintf(w, "sites:    %d\n", res.SiteRows)
		if res.SnapshotName != "" {
			fmt.Fprintf(w, "snapshot: %s\n", res.SnapshotName)
		}
		for _, warning := range res.Warnings {
			fmt.Fprintf(w, "warning:  %s\n", warning)
		}
	}

	if res.Outcome == models.OutcomeEmpty {
		return errors.ErrNoData
	}
	return nil
}
