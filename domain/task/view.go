package task

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
)

// SortKey selects the ordering of the visible list.
type SortKey string

const (
	SortCreated  SortKey = "created"
	SortTitle    SortKey = "title"
	SortDueDate  SortKey = "dueDate"
	SortPriority SortKey = "priority"
)

// ParseStatusFilter parses a status filter. An empty string means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.TrimSpace(s)) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusPending:
		return StatusPending, nil
	}
	return "", fmt.Errorf("%w: unknown status filter %q", ErrValidation, s)
}

// ParseSortKey parses a sort key. An empty string means created.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.TrimSpace(s)) {
	case "", SortCreated:
		return SortCreated, nil
	case SortTitle:
		return SortTitle, nil
	case SortDueDate:
		return SortDueDate, nil
	case SortPriority:
		return SortPriority, nil
	}
	return "", fmt.Errorf("%w: unknown sort key %q", ErrValidation, s)
}

// Query is the user's current view selection.
type Query struct {
	Search   string
	Status   StatusFilter
	Category string
	Sort     SortKey
}

// Counts summarizes the full collection.
type Counts struct {
	All       int `json:"all"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// View is the derived, read-only projection of a collection.
type View struct {
	Tasks      []Task
	Counts     Counts
	Categories []string
}

// Pipeline computes views. The zero value sorts titles with English collation.
type Pipeline struct {
	lang language.Tag
}

// NewPipeline returns a pipeline that collates titles for lang.
func NewPipeline(lang language.Tag) Pipeline {
	return Pipeline{lang: lang}
}

// BuildView computes the view of tasks for q with the default pipeline.
func BuildView(tasks []Task, q Query) View {
	return Pipeline{}.Apply(tasks, q)
}

// Apply filters and sorts tasks for q. Counts and categories always
// describe the full collection. tasks is not modified.
func (p Pipeline) Apply(tasks []Task, q Query) View {
	visible := make([]Task, 0, len(tasks))
	term := strings.ToLower(strings.TrimSpace(q.Search))
	for _, t := range tasks {
		if term != "" && !matchesSearch(t, term) {
			continue
		}
		if !matchesStatus(t, q.Status) {
			continue
		}
		if q.Category != "" && (t.Category == nil || *t.Category != q.Category) {
			continue
		}
		visible = append(visible, t)
	}

	p.sortTasks(visible, q.Sort)

	return View{
		Tasks:      visible,
		Counts:     CountTasks(tasks),
		Categories: Categories(tasks),
	}
}

func matchesSearch(t Task, term string) bool {
	if strings.Contains(strings.ToLower(t.Title), term) {
		return true
	}
	if t.Description != nil && strings.Contains(strings.ToLower(*t.Description), term) {
		return true
	}
	return t.Category != nil && strings.Contains(strings.ToLower(*t.Category), term)
}

func matchesStatus(t Task, status StatusFilter) bool {
	switch status {
	case StatusCompleted:
		return t.Completed
	case StatusPending:
		return !t.Completed
	default:
		return true
	}
}

func (p Pipeline) sortTasks(tasks []Task, key SortKey) {
	switch key {
	case SortTitle:
		lang := p.lang
		if lang == language.Und {
			lang = language.English
		}
		c := collate.New(lang)
		sort.SliceStable(tasks, func(i, j int) bool {
			return c.CompareString(tasks[i].Title, tasks[j].Title) < 0
		})
	case SortDueDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			di, iok := tasks[i].Due()
			dj, jok := tasks[j].Due()
			switch {
			case iok && jok:
				return di.Before(dj)
			case iok:
				return true
			default:
				return false
			}
		})
	case SortPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	}
}

// CountTasks returns the completion counts of tasks.
func CountTasks(tasks []Task) Counts {
	c := Counts{All: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		}
	}
	c.Pending = c.All - c.Completed
	return c
}

// Categories returns the distinct non-empty categories of tasks, sorted.
func Categories(tasks []Task) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range tasks {
		if t.Category == nil || *t.Category == "" {
			continue
		}
		if _, ok := seen[*t.Category]; ok {
			continue
		}
		seen[*t.Category] = struct{}{}
		out = append(out, *t.Category)
	}
	sort.Strings(out)
	return out
}
