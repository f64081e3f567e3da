package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jengzang/hcip-dashboard-go/internal/repository"
)

func newSnapshotsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots",
		Short: "List persisted snapshots, oldest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := rt.cfg.Location()
			if err != nil {
				return err
			}
			repo := repository.NewSnapshotRepository(rt.cfg.Cache.Dir, loc, rt.logger)
			return listSnapshots(cmd.OutOrStdout(), repo, loc)
		},
	}
}

func listSnapshots(w io.Writer, repo *repository.SnapshotRepository, loc *time.Location) error {
	files, err := repo.List()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(w, "no snapshots")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTAKEN AT\tSIZE")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", f.Name, f.TakenAt.In(loc).Format(time.DateTime), f.SizeBytes)
	}
	return tw.Flush()
}
