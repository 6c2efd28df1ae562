package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	v1 "github.com/kubev2v/job-runner/api/v1"
	"github.com/kubev2v/job-runner/internal/client"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

func newJobsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "Show the runner status and its jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			status, err := c.Status(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(cmd, status)
			return nil
		},
	}
}

func newNotifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "notify <job-id> <message>",
		Short: "Send a notification to a job",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}

			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			if err := c.Notify(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			green.Fprintf(cmd.OutOrStdout(), "notification queued for job %d\n", id)
			return nil
		},
	}
}

func newShutdownCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "shutdown",
		Short: "Stop the runner and wait for its worker to exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			status, err := c.Shutdown(cmd.Context(), timeout)
			if err != nil {
				return err
			}
			printStatus(cmd, status)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Time to wait for the worker to exit")

	return cmd
}

func printStatus(cmd *cobra.Command, status *v1.RunnerStatus) {
	out := cmd.OutOrStdout()

	state := green.Sprint("running")
	switch {
	case !status.Started:
		state = yellow.Sprint("not started")
	case status.Exited && status.Error != nil:
		state = red.Sprintf("failed: %s", *status.Error)
	case status.Exited:
		state = yellow.Sprint("exited")
	}
	bold.Fprintf(out, "%s", status.Name)
	fmt.Fprintf(out, " (%s) %s\n", status.Id, state)

	if len(status.Jobs) == 0 {
		fmt.Fprintln(out, "no jobs")
		return
	}

	fmt.Fprintf(out, "%-4s %-20s %-10s %-10s %-10s %s\n", "ID", "NAME", "KIND", "INTERVAL", "STATUS", "RUNS")
	for _, j := range status.Jobs {
		st := green.Sprint(j.Status)
		if j.Status == "done" {
			st = yellow.Sprint(j.Status)
		}
		fmt.Fprintf(out, "%-4d %-20s %-10s %-10s %-19s %d\n", j.Id, j.Name, j.Kind, j.Interval, st, j.Runs)
	}
}

func newRunsCommand() *cobra.Command {
	var opts client.RunsOptions

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List the recorded job runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			list, err := c.Runs(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-20s %-20s %-14s %-9s %-11s %s\n", "STARTED", "JOB", "STATE", "NOTIFIED", "RESULT", "DURATION")
			for _, r := range list.Runs {
				result := green.Sprintf("%-11s", r.Result)
				if r.Result == "done" {
					result = yellow.Sprintf("%-11s", r.Result)
				}
				fmt.Fprintf(out, "%-20s %-20s %-14s %-9t %s %.2fms\n",
					r.StartedAt.Local().Format(time.DateTime), r.JobName, r.State, r.Notified, result, r.DurationMs)
			}
			bold.Fprintf(out, "page %d/%d, %d runs\n", list.Page, list.PageCount, list.Total)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&opts.Jobs, "job", nil, "Only show runs of these jobs")
	cmd.Flags().StringVar(&opts.Result, "result", "", "Only show runs with this result: keep_alive or done")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page to show")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 20, "Runs per page")

	return cmd
}
