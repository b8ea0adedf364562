package domain

import "strings"

// Draft task operations. All three are pure: they return a new slice and
// never mutate their input, so a caller can keep the previous draft around.

// AddTask appends a pending task. Blank text is ignored.
func AddTask(tasks []TaskItem, text string) []TaskItem {
	text = strings.TrimSpace(text)
	if text == "" {
		return tasks
	}
	out := make([]TaskItem, len(tasks), len(tasks)+1)
	copy(out, tasks)
	return append(out, TaskItem{Text: text})
}

// RemoveTask deletes the task at index i. Deletion is by position, not
// identity; out-of-range indexes leave the list unchanged.
func RemoveTask(tasks []TaskItem, i int) []TaskItem {
	if i < 0 || i >= len(tasks) {
		return tasks
	}
	out := make([]TaskItem, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}

// ToggleTask flips the done flag of the task at index i. Out-of-range
// indexes leave the list unchanged.
func ToggleTask(tasks []TaskItem, i int) []TaskItem {
	if i < 0 || i >= len(tasks) {
		return tasks
	}
	out := make([]TaskItem, len(tasks))
	copy(out, tasks)
	out[i].Done = !out[i].Done
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
