package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects and tasks you can track time against",
	Long: `projects refreshes the session from Harvest and prints the current
user's project assignments with their task ids, the ids "start" expects.`,
	Args: cobra.NoArgs,
	RunE: runProjectsCmd,
}

func runProjectsCmd(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signalContext()
	defer stop()

	sess := application.Session()
	if err := sess.Refresh(ctx); err != nil {
		return err
	}

	if user := sess.User(); user != nil {
		fmt.Printf("%s %s\n\n", user.FirstName, user.LastName)
	}
	for _, pa := range sess.Projects() {
		fmt.Printf("%d  %s (%s)\n", pa.Project.ID, pa.Project.Name, pa.Client)
		for _, task := range pa.Tasks {
			fmt.Printf("    %d  %s\n", task.ID, task.Name)
		}
	}
	return nil
}
