package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"harvestql/internal/session"
)

var startCmd = &cobra.Command{
	Use:   "start <project-id> <task-id>",
	Short: "Start a timer on a project and task",
	Args:  cobra.ExactArgs(2),
	RunE:  runStartCmd,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running timer",
	Args:  cobra.NoArgs,
	RunE:  runStopCmd,
}

func runStartCmd(cmd *cobra.Command, args []string) error {
	projectID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid project id %q", args[0])
	}
	taskID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[1])
	}

	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signalContext()
	defer stop()

	entry, err := application.Session().StartTimer(ctx, projectID, taskID, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("started: %s / %s\n", entry.Project.Name, entry.Task.Name)
	return nil
}

func runStopCmd(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signalContext()
	defer stop()

	entry, err := application.Session().StopTimer(ctx)
	if errors.Is(err, session.ErrNoRunningTimer) {
		fmt.Println("no timer running")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("stopped: %s / %s (%.2fh)\n", entry.Project.Name, entry.Task.Name, entry.Hours)
	return nil
}
