package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTask(t *testing.T) {
	tasks := AddTask(nil, "Cambiar frenos")
	require.Len(t, tasks, 1)
	assert.Equal(t, TaskItem{Text: "Cambiar frenos"}, tasks[0])

	tasks = AddTask(tasks, "  Centrar rueda  ")
	require.Len(t, tasks, 2)
	assert.Equal(t, "Centrar rueda", tasks[1].Text)

	assert.Len(t, AddTask(tasks, "   "), 2)
}

func TestRemoveTaskByPosition(t *testing.T) {
	tasks := []TaskItem{{Text: "a"}, {Text: "b"}, {Text: "c"}}

	out := RemoveTask(tasks, 1)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Text)
	assert.Equal(t, "c", out[1].Text)

	// input untouched
	assert.Len(t, tasks, 3)

	assert.Len(t, RemoveTask(tasks, -1), 3)
	assert.Len(t, RemoveTask(tasks, 3), 3)
}

func TestToggleTask(t *testing.T) {
	tasks := []TaskItem{{Text: "a"}, {Text: "b", Done: true}}

	out := ToggleTask(tasks, 0)
	assert.True(t, out[0].Done)
	assert.False(t, tasks[0].Done, "input untouched")

	out = ToggleTask(out, 1)
	assert.False(t, out[1].Done)

	assert.Equal(t, tasks, ToggleTask(tasks, 5))
}

func TestWorkDescriptionEmpty(t *testing.T) {
	assert.True(t, WorkDescription{Mode: WorkTaskList}.Empty())
	assert.False(t, WorkDescription{Mode: WorkTaskList, Tasks: []TaskItem{{Text: "x"}}}.Empty())
	assert.True(t, WorkDescription{Mode: WorkFreeText, Text: "  "}.Empty())
	assert.False(t, WorkDescription{Mode: WorkFreeText, Text: "revisión general"}.Empty())
}
