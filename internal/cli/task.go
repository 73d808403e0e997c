package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tejashree-V/IBM-PROJECT/internal/api"
	"github.com/Tejashree-V/IBM-PROJECT/internal/config"
	"github.com/Tejashree-V/IBM-PROJECT/internal/task"
)

var (
	taskPriority    string
	taskDescription string
	taskDueDate     string
	taskCategory    string
	taskAssign      string
	taskEstimate    float64
	taskToken       string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create or manage tasks from the shell",
	Long:  "Drive the task service without the UI. Useful for scripting and smoke tests.",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskCreate,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tasks",
	RunE:  runTaskList,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [id]",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

var taskCommentCmd = &cobra.Command{
	Use:   "comment [id] [content]",
	Short: "Add a comment to a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskComment,
}

func init() {
	taskCreateCmd.Flags().StringVarP(&taskPriority, "priority", "p", "medium", "Priority: low, medium, high, urgent")
	taskCreateCmd.Flags().StringVarP(&taskDescription, "desc", "d", "", "Task description")
	taskCreateCmd.Flags().StringVar(&taskDueDate, "due", "", "Due date (yyyy-mm-dd)")
	taskCreateCmd.Flags().StringVar(&taskCategory, "category", "", "Category label")
	taskCreateCmd.Flags().StringVar(&taskAssign, "assign", "", "Assignee label")
	taskCreateCmd.Flags().Float64Var(&taskEstimate, "estimate", 0, "Estimated hours")

	taskCmd.PersistentFlags().StringVar(&taskToken, "token", "", "Bearer token (defaults to $TASKMAN_TOKEN)")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskCommentCmd)
}

func taskClient() (*api.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	token := taskToken
	if token == "" {
		token = os.Getenv("TASKMAN_TOKEN")
	}
	return api.NewClient(cfg.Client.ServiceURL, func() string { return token }), nil
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	c, err := taskClient()
	if err != nil {
		return err
	}

	t := task.Task{
		Title:       args[0],
		Description: taskDescription,
		Priority:    task.Priority(taskPriority),
		Category:    taskCategory,
		AssignedTo:  taskAssign,
	}
	if taskDueDate != "" {
		due, err := time.Parse("2006-01-02", taskDueDate)
		if err != nil {
			return fmt.Errorf("due date must be yyyy-mm-dd: %w", err)
		}
		t.DueDate = &due
	}
	if cmd.Flags().Changed("estimate") {
		t.EstimatedTime = &taskEstimate
	}

	created, err := c.Create(context.Background(), t)
	if err != nil {
		return err
	}
	fmt.Printf("Created task %s: %s\n", created.ID, created.Title)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	c, err := taskClient()
	if err != nil {
		return err
	}

	tasks, err := c.List(context.Background())
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	for _, t := range task.DefaultFilters().Apply(tasks) {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Printf("%s  %-10s %-7s %3d%%  due %-10s  %s\n",
			t.ID, t.Status, t.Priority, task.Progress(t), due, t.Title)
	}
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	c, err := taskClient()
	if err != nil {
		return err
	}

	completed := task.StatusCompleted
	updated, err := c.Update(context.Background(), args[0], task.Patch{Status: &completed})
	if err != nil {
		return err
	}
	fmt.Printf("Completed: %s\n", updated.Title)
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	c, err := taskClient()
	if err != nil {
		return err
	}

	if err := c.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Println("Task deleted.")
	return nil
}

func runTaskComment(cmd *cobra.Command, args []string) error {
	c, err := taskClient()
	if err != nil {
		return err
	}

	updated, err := c.AddComment(context.Background(), args[0], task.Comment{
		Content:   args[1],
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Comment added (%d total on %s)\n", len(updated.Comments), updated.Title)
	return nil
}
