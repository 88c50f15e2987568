package cli

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"paperdash/internal/library"
	"paperdash/internal/pipeline"
)

// runWatch renders a plain auto-refreshing run board for terminals where the
// full-screen dashboard is unwanted (multiplexer panes, simple logs).
func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	pipelineBin := fs.String("pipeline", "", "pipeline binary override")
	config := fs.String("config", library.DefaultConfigPath, "library config path")
	interval := fs.Int("interval", -1, "poll interval in seconds (-1 uses settings)")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, settings, err := newPipelineClient(*pipelineBin, *config)
	if err != nil {
		return err
	}
	pollInterval := settings.PollInterval()
	if *interval >= 0 {
		pollInterval = time.Duration(*interval) * time.Second
	}
	if pollInterval <= 0 {
		return fmt.Errorf("polling is disabled (interval 0); use paperdash status instead")
	}

	poller := pipeline.NewPoller(client, pollInterval)
	poller.Start()
	defer poller.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	for {
		select {
		case <-sig:
			fmt.Println()
			return nil
		case snap := <-poller.Snapshots():
			renderWatchBoard(snap)
		}
	}
}

func renderWatchBoard(snap pipeline.Snapshot) {
	var b strings.Builder
	b.WriteString("\033[H\033[2J")
	b.WriteString(fmt.Sprintf("paperdash watch | %d run(s) | refreshed %s | ctrl+c to stop\n",
		len(snap.Runs), snap.At.Format("15:04:05")))
	b.WriteString(strings.Repeat("-", 100) + "\n")

	if snap.Err != nil {
		b.WriteString("poll error: " + snap.Err.Error() + "\n")
	} else if len(snap.Runs) == 0 {
		b.WriteString("(no runs reported)\n")
	} else {
		for _, r := range snap.Runs {
			mark := " "
			if pipeline.NeedsAttention(r.Status) {
				mark = "!"
			}
			b.WriteString(fmt.Sprintf("%s %-20s %-16s %s\n", mark, r.ID, r.Status, r.CreatedAt))
			if r.Error != "" {
				b.WriteString("    " + r.Error + "\n")
			}
		}
	}
	fmt.Print(b.String())
}
