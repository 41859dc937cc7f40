package tasks_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowlist/internal/service"
	"flowlist/internal/tasks"
	"flowlist/internal/testutil"
)

func loadedEngine(t *testing.T, svc *testutil.FakeService) *tasks.Engine {
	t.Helper()
	e := tasks.NewEngine(svc)
	require.NoError(t, e.Load(context.Background()))
	return e
}

func TestLoad_ReplacesListVerbatim(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SeedTask("Buy milk", "", "low", false)
	svc.SeedTask("File taxes", "", "high", true)

	e := loadedEngine(t, svc)

	got := e.Tasks()
	require.Len(t, got, 2)
	assert.Equal(t, "Buy milk", got[0].Title)
	assert.Equal(t, "File taxes", got[1].Title)
	assert.Equal(t, 2, e.Count())
	assert.Empty(t, e.LoadError())
	assert.False(t, e.Loading())
}

func TestLoad_DomainErrorIsRecorded(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListAllErr = &service.DomainError{Message: "Backend unavailable"}

	e := tasks.NewEngine(svc)
	err := e.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Backend unavailable", e.LoadError())
	assert.False(t, e.Loading())
}

func TestLoad_AuthFailureIsReturnedNotRecorded(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListAllErr = service.ErrUnauthenticated

	e := tasks.NewEngine(svc)
	err := e.Load(context.Background())

	assert.ErrorIs(t, err, service.ErrUnauthenticated)
	// Auth failures are routed to forced logout, never shown as load errors.
	assert.Empty(t, e.LoadError())
}

func TestLoad_ClearsPreviousError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListAllErr = &service.DomainError{Message: "Backend unavailable"}

	e := tasks.NewEngine(svc)
	require.Error(t, e.Load(context.Background()))
	require.NotEmpty(t, e.LoadError())

	svc.ListAllErr = nil
	require.NoError(t, e.Load(context.Background()))
	assert.Empty(t, e.LoadError())
}

func TestCreate_ReloadsForServerAssignedFields(t *testing.T) {
	svc := testutil.NewFakeService()
	e := loadedEngine(t, svc)

	created, err := e.Create(context.Background(), service.TaskDraft{Title: "Buy milk"})

	require.NoError(t, err)
	assert.Equal(t, "1", created.ID)
	assert.Equal(t, service.PriorityMedium, created.Priority)

	got := e.Tasks()
	require.Len(t, got, 1)
	assert.Equal(t, created, got[0])
}

func TestUpdate_ReplacesRecordWithServerObject(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.SeedTask("Buy milk", "", "low", false)
	svc.SeedTask("Walk dog", "", "medium", false)
	e := loadedEngine(t, svc)

	title := "Buy oat milk"
	updated, err := e.Update(context.Background(), seeded.ID, service.TaskPatch{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)

	got := e.Tasks()
	require.Len(t, got, 2)
	assert.Equal(t, updated, got[0])
	assert.Equal(t, "Walk dog", got[1].Title)
}

func TestToggleComplete_MovesTaskAcrossPartitions(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.SeedTask("Buy milk", "", "low", false)
	e := loadedEngine(t, svc)

	updated, err := e.ToggleComplete(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.True(t, e.Tasks()[0].Completed)

	updated, err = e.ToggleComplete(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.False(t, updated.Completed)
	assert.False(t, e.Tasks()[0].Completed)
}

func TestReconcile_UnseenRecordIsAppended(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.SeedTask("Buy milk", "", "low", false)

	// No Load: the engine has never seen the record.
	e := tasks.NewEngine(svc)
	_, err := e.ToggleComplete(context.Background(), seeded.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, e.Count())
}

func TestDelete_RemovesLocalRecord(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.SeedTask("Buy milk", "", "low", false)
	keep := svc.SeedTask("Walk dog", "", "medium", false)
	e := loadedEngine(t, svc)

	require.NoError(t, e.Delete(context.Background(), seeded.ID))

	got := e.Tasks()
	require.Len(t, got, 1)
	assert.Equal(t, keep.ID, got[0].ID)
}

func TestDelete_FailureLeavesListUntouched(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SeedTask("Buy milk", "", "low", false)
	e := loadedEngine(t, svc)

	err := e.Delete(context.Background(), "999")

	var derr *service.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 1, e.Count())
}

func TestMutation_ErrorLeavesListUntouched(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.SeedTask("Buy milk", "", "low", false)
	e := loadedEngine(t, svc)

	svc.ToggleErr = service.ErrUnauthenticated
	_, err := e.ToggleComplete(context.Background(), seeded.ID)

	assert.ErrorIs(t, err, service.ErrUnauthenticated)
	assert.False(t, e.Tasks()[0].Completed)
}

func TestTasks_ReturnsSnapshot(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SeedTask("Buy milk", "", "low", false)
	e := loadedEngine(t, svc)

	snap := e.Tasks()
	snap[0].Title = "mutated"

	assert.Equal(t, "Buy milk", e.Tasks()[0].Title)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, tasks.IsNotFound(service.ErrNotFound))
	assert.False(t, tasks.IsNotFound(service.ErrUnauthenticated))
	assert.False(t, tasks.IsNotFound(nil))
}
