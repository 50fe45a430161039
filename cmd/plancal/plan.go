package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"plancal/internal/browser"
	"plancal/internal/calendar"
	"plancal/internal/planner"

	"github.com/spf13/cobra"
)

func newPlanCmd(configPath *string) *cobra.Command {
	var (
		icsPath      string
		snapshotPath string
		tz           string
	)

	cmd := &cobra.Command{
		Use:   "plan [request]",
		Short: "Generate a plan once and print its events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			var loc *time.Location
			if tz != "" {
				if loc, err = time.LoadLocation(tz); err != nil {
					return fmt.Errorf("--tz: %w", err)
				}
			}

			p, cleanup, err := newPlanner(cmd, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := p.Run(cmd.Context(), strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if res.Plan != "" {
				fmt.Fprintln(out, res.Plan)
				fmt.Fprintln(out)
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), planner.Message(err))
				return errReported
			}

			fmt.Fprintln(out, planner.MsgSuccess)
			printEvents(out, res)

			if icsPath != "" {
				body, err := calendar.ICS(res.Events, calendar.ICSOptions{Name: planner.MsgTitle, Location: loc})
				if err != nil {
					return err
				}
				if err := os.WriteFile(icsPath, []byte(body), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", icsPath)
			}
			if snapshotPath != "" {
				if err := writeSnapshot(cmd, res, snapshotPath); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", snapshotPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&icsPath, "ics", "", "Write the events to this .ics file")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Write a PNG of the rendered calendar (needs Chrome)")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA time zone for the .ics export (default: floating local time)")
	return cmd
}

func printEvents(w io.Writer, res *planner.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tSTART\tEND")
	for _, e := range res.Events {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Title, e.Start, e.End)
	}
	_ = tw.Flush()

	if len(res.Anomalies) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, planner.MsgAnomaly)
		for _, a := range res.Anomalies {
			fmt.Fprintf(w, "  - %s\n", a.Event)
		}
	}
}

func writeSnapshot(cmd *cobra.Command, res *planner.Result, path string) error {
	page, err := calendar.Page(planner.MsgTitle, res.Events)
	if err != nil {
		return err
	}

	ctrl := browser.New(browser.Config{Headless: true, ChromePath: os.Getenv("PLANCAL_CHROME_PATH")})
	if err := ctrl.Start(cmd.Context()); err != nil {
		return err
	}
	defer ctrl.Stop()

	png, err := ctrl.Snapshot(cmd.Context(), page)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0o644)
}
