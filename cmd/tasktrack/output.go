package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	domain "github.com/example/task-tracker/domain/task"
)

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func checkbox(t domain.Task) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

// printView writes the visible tasks as a table followed by the
// collection summary.
func printView(w io.Writer, view domain.View, now time.Time) error {
	if len(view.Tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tDUE\tCATEGORY\tTITLE")
		for _, t := range view.Tasks {
			due := deref(t.DueDate)
			if t.IsOverdue(now) {
				due += " (overdue)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, checkbox(t), t.Priority, due, deref(t.Category), t.Title)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\n%d total, %d completed, %d pending\n",
		view.Counts.All, view.Counts.Completed, view.Counts.Pending)
	if len(view.Categories) > 0 {
		fmt.Fprintf(w, "Categories: %s\n", strings.Join(view.Categories, ", "))
	}
	return nil
}

// printTask writes every field of t.
func printTask(w io.Writer, t domain.Task, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	status := "pending"
	if t.Completed {
		status = "completed"
	} else if t.IsOverdue(now) {
		status = "overdue"
	}
	fmt.Fprintf(tw, "ID:\t%s\n", t.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", t.Title)
	fmt.Fprintf(tw, "Description:\t%s\n", deref(t.Description))
	fmt.Fprintf(tw, "Status:\t%s\n", status)
	fmt.Fprintf(tw, "Priority:\t%s\n", t.Priority)
	fmt.Fprintf(tw, "Due:\t%s\n", deref(t.DueDate))
	fmt.Fprintf(tw, "Category:\t%s\n", deref(t.Category))
	fmt.Fprintf(tw, "Created:\t%s\n", t.CreatedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(tw, "Updated:\t%s\n", t.UpdatedAt.Local().Format(time.RFC3339))
	return tw.Flush()
}
