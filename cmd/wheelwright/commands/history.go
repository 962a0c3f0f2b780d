package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/wheelwright/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit   int    `help:"Maximum number of releases to show" default:"20"`
	Release string `help:"Show the recorded events of one release"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cfg.History.Disabled {
		return fmt.Errorf("release history is disabled in configuration")
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open release history: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if h.Release != "" {
		return printEvents(ctx, store, h.Release)
	}
	return printReleases(ctx, store, h.Limit)
}

func printReleases(ctx context.Context, store history.Store, limit int) error {
	releases, err := store.Releases(ctx)
	if err != nil {
		return err
	}
	if len(releases) == 0 {
		fmt.Println("No releases recorded yet")
		return nil
	}
	if limit > 0 && len(releases) > limit {
		releases = releases[:limit]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RELEASE\tPROJECT\tVERSION\tSTATUS\tARTIFACTS\tSTARTED")
	for _, r := range releases {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ReleaseID, r.Project, r.Version, r.Status, r.Artifacts,
			r.StartedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func printEvents(ctx context.Context, store history.Store, releaseID string) error {
	eventList, err := store.ByRelease(ctx, releaseID)
	if err != nil {
		return err
	}
	if len(eventList) == 0 {
		return fmt.Errorf("no events recorded for release %s", releaseID)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTYPE\tPAYLOAD")
	for _, event := range eventList {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			event.Timestamp().Local().Format(time.DateTime), event.Type(), event.Payload())
	}
	return w.Flush()
}
