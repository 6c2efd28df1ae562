package v1

import (
	"github.com/kubev2v/job-runner/internal/models"
	"github.com/kubev2v/job-runner/internal/util"
)

// NewJobFromModel converts a models.Job to an API Job.
func NewJobFromModel(j models.Job) Job {
	return Job{
		Id:       j.ID,
		Name:     j.Name,
		Kind:     j.Kind,
		Interval: j.Interval.String(),
		Status:   string(j.Status),
		Runs:     j.Runs,
		LastRun:  j.LastRun,
	}
}

func NewJobListFromModel(jobs []models.Job) JobList {
	list := JobList{Jobs: make([]Job, 0, len(jobs))}
	for _, j := range jobs {
		list.Jobs = append(list.Jobs, NewJobFromModel(j))
	}
	return list
}

func (s *RunnerStatus) FromModel(m models.RunnerStatus) {
	s.Id = m.ID
	s.Name = m.Name
	s.Started = m.Started
	s.Exited = m.Exited
	if m.Error != "" {
		s.Error = &m.Error
	}
	s.Jobs = NewJobListFromModel(m.Jobs).Jobs
}

// NewRunFromModel converts a models.Run to an API Run.
func NewRunFromModel(r models.Run) Run {
	return Run{
		Id:         r.ID,
		RunnerId:   r.RunnerID,
		JobId:      r.JobID,
		JobName:    r.JobName,
		State:      r.State,
		Notified:   r.Notified,
		Result:     r.Result,
		StartedAt:  r.Started,
		DurationMs: util.DurationToMs(r.Duration),
	}
}
