package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type countJob struct {
	name string
	runs int
}

func (j *countJob) Name() string { return j.name }

func (j *countJob) Run(ctx context.Context) error {
	j.runs++
	return nil
}

func TestAddJobRejectsDuplicateName(t *testing.T) {
	s := NewCronScheduler()
	require.NoError(t, s.AddJob(&countJob{name: "reaper"}, "* * * * *"))
	require.Error(t, s.AddJob(&countJob{name: "reaper"}, "* * * * *"))
}

func TestAddJobRejectsBadSpec(t *testing.T) {
	s := NewCronScheduler()
	require.Error(t, s.AddJob(&countJob{name: "bad"}, "every minute"))
}

func TestWrapRunsJob(t *testing.T) {
	s := NewCronScheduler()
	s.Start(context.Background())
	defer s.Stop()
	j := &countJob{name: "direct"}
	s.wrap(j, "* * * * *")()
	s.wrap(j, "* * * * *")()
	require.Equal(t, 2, j.runs)
}
