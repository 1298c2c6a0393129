package main

import (
	"fmt"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/spf13/cobra"
)

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tasktrack",
		Short:         "Track personal tasks from the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(loginCmd(c))
	rootCmd.AddCommand(logoutCmd(c))
	rootCmd.AddCommand(whoamiCmd(c))
	rootCmd.AddCommand(addCmd(c))
	rootCmd.AddCommand(editCmd(c))
	rootCmd.AddCommand(toggleCmd(c))
	rootCmd.AddCommand(rmCmd(c))
	rootCmd.AddCommand(showCmd(c))
	rootCmd.AddCommand(listCmd(c))
	rootCmd.AddCommand(themeCmd(c))

	return rootCmd
}

func loginCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "login NAME",
		Short: "Sign in, replacing any current user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.login(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", u.Username)
			return nil
		},
	}
}

func logoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out; stored tasks are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ended, err := c.logout(cmd.Context())
			if err != nil {
				return err
			}
			if ended == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed out %s\n", ended.Username)
			return nil
		},
	}
}

func whoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, ok := c.session.Current()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (since %s)\n", u.Username, u.LoginTime.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("description", "d", "", "Task description")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringP("priority", "p", "", "Priority (low, medium, high)")
	cmd.Flags().StringP("category", "c", "", "Category")
}

// changedString returns a pointer to the flag value if the flag was given.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func addCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.requireUser(); err != nil {
				return err
			}
			priority, _ := cmd.Flags().GetString("priority")

			t, err := c.tasks.Create(cmd.Context(), domain.CreateInput{
				Title:       args[0],
				Description: changedString(cmd, "description"),
				DueDate:     changedString(cmd, "due"),
				Priority:    domain.Priority(priority),
				Category:    changedString(cmd, "category"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", t.ID)
			return nil
		},
	}
	addTaskFlags(cmd)
	return cmd
}

func editCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a task; an empty value clears an optional field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.requireUser(); err != nil {
				return err
			}

			in := domain.UpdateInput{
				Title:       changedString(cmd, "title"),
				Description: changedString(cmd, "description"),
				DueDate:     changedString(cmd, "due"),
				Category:    changedString(cmd, "category"),
			}
			if p := changedString(cmd, "priority"); p != nil {
				priority := domain.Priority(*p)
				in.Priority = &priority
			}

			t, err := c.tasks.Update(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", t.ID)
			return nil
		},
	}
	addTaskFlags(cmd)
	cmd.Flags().StringP("title", "t", "", "New title")
	return cmd
}

func toggleCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.requireUser(); err != nil {
				return err
			}
			t, err := c.tasks.ToggleComplete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := "pending"
			if t.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", t.ID, state)
			return nil
		},
	}
}

func rmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.requireUser(); err != nil {
				return err
			}
			existed, err := c.tasks.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if existed {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No task %s\n", args[0])
			}
			return nil
		},
	}
}

func showCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.requireUser(); err != nil {
				return err
			}
			t, err := c.tasks.Get(args[0])
			if err != nil {
				return err
			}
			return printTask(cmd.OutOrStdout(), t, c.now())
		},
	}
}

func listCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.requireUser(); err != nil {
				return err
			}
			search, _ := cmd.Flags().GetString("search")
			status, _ := cmd.Flags().GetString("status")
			category, _ := cmd.Flags().GetString("category")
			sortBy, _ := cmd.Flags().GetString("sort")

			q := domain.Query{Search: search, Category: category}
			var err error
			if q.Status, err = domain.ParseStatusFilter(status); err != nil {
				return err
			}
			if q.Sort, err = domain.ParseSortKey(sortBy); err != nil {
				return err
			}

			view := c.pipeline.Apply(c.tasks.LoadAll(), q)
			return printView(cmd.OutOrStdout(), view, c.now())
		},
	}

	cmd.Flags().StringP("search", "s", "", "Case-insensitive text in title, description or category")
	cmd.Flags().String("status", "all", "Status filter (all, completed, pending)")
	cmd.Flags().StringP("category", "c", "", "Exact category")
	cmd.Flags().String("sort", "created", "Sort key (created, title, dueDate, priority)")

	return cmd
}

func themeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the display theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				if err := c.gateway.SetDarkMode(ctx, args[0] == "dark"); err != nil {
					return err
				}
			}
			dark, err := c.gateway.DarkMode(ctx)
			if err != nil {
				return err
			}
			theme := "light"
			if dark {
				theme = "dark"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", theme)
			return nil
		},
	}
}
