package operations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotifyeda/internal/dataprocessing"
)

func TestStepState_Lifecycle(t *testing.T) {
	s := NewStepState(StepIDClean, StepNameClean)
	assert.Equal(t, StepStatusPending, s.GetStatus())
	assert.Zero(t, s.Duration())

	s.Start()
	assert.Equal(t, StepStatusActive, s.GetStatus())
	require.NotNil(t, s.StartTime)

	time.Sleep(time.Millisecond)
	s.SetMetadata(MetaRows, 10)
	s.Fail(errors.New("bad cell"))

	snap := s.Snapshot()
	assert.Equal(t, StepStatusFailed, snap.Status)
	assert.Equal(t, "bad cell", snap.Error)
	assert.Equal(t, 10, snap.Metadata[MetaRows])
	assert.Greater(t, s.Duration(), time.Duration(0))

	snap.Metadata[MetaRows] = 99
	assert.Equal(t, 10, s.Snapshot().Metadata[MetaRows], "snapshot owns its metadata")
}

func TestStepState_Skip(t *testing.T) {
	s := NewStepState(StepIDSave, StepNameSave)
	s.Skip("no sink")

	assert.Equal(t, StepStatusSkipped, s.GetStatus())
	assert.Equal(t, "no sink", s.Snapshot().Message)
}

func TestOperationState(t *testing.T) {
	state := NewOperationState("op-1")
	assert.Nil(t, state.Dataset())

	state.AddStep(NewStepState(StepIDLoad, StepNameLoad))
	state.AddStep(NewStepState(StepIDClean, StepNameClean))
	state.Start()
	assert.Equal(t, OperationStatusRunning, state.GetStatus())

	ds := dataprocessing.MustDataset([]string{"a"}, nil)
	state.SetDataset(ds)
	assert.Same(t, ds, state.Dataset())

	steps := state.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, StepIDLoad, steps[0].ID)

	assert.False(t, state.HasFailures())
	state.GetStep(StepIDClean).Fail(errors.New("x"))
	assert.True(t, state.HasFailures())

	state.Fail(errors.New("x"))
	assert.Equal(t, OperationStatusFailed, state.GetStatus())
	require.NotNil(t, state.EndTime)
}

type nopStep struct{ BaseStep }

func (nopStep) Execute(context.Context, *OperationState) error { return nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(&nopStep{NewBaseStep("a", "A")}))
	require.NoError(t, r.Register(&nopStep{NewBaseStep("b", "B")}))
	assert.Error(t, r.Register(&nopStep{NewBaseStep("a", "again")}))
	assert.Error(t, r.Register(&nopStep{NewBaseStep("", "unnamed")}))
	assert.Error(t, r.Register(nil))

	assert.Equal(t, 2, r.Count())
	assert.True(t, r.Has("b"))

	step, err := r.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "B", step.Name())

	_, err = r.Get("zzz")
	assert.Error(t, err)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID())
}

func TestStepsRequireDataset(t *testing.T) {
	state := NewOperationState("op")

	for _, step := range []Step{NewNormalizeStep(), NewCleanStep(), NewSaveStep(nil)} {
		err := step.Execute(context.Background(), state)
		assert.Equal(t, ErrorTypeInvalidState, GetErrorType(err), step.ID())
	}

	err := NewLoadStep(nil).Execute(context.Background(), state)
	assert.Equal(t, ErrorTypeInvalidState, GetErrorType(err))
}

func TestOperationError(t *testing.T) {
	cause := errors.New("boom")
	err := NewExecutionError(StepIDSave, cause)

	assert.Equal(t, "[execution] save: step execution failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, StepIDSave, FailedStep(err))
	assert.Equal(t, ErrorTypeExecution, GetErrorType(cause))
	assert.Equal(t, ErrorType(""), GetErrorType(nil))
}
