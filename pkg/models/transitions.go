package models

import "fmt"

// Job lifecycle:
//
//	open ──► matched ──► in_progress ──► completed
//	  │         │             │
//	  │         └─────────────┴──► disputed
//	  ├──► cancelled
//	  └──► disputed
//
// completed, cancelled and disputed are terminal.
type JobStatus string

const (
	JobOpen       JobStatus = "open"
	JobMatched    JobStatus = "matched"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
	JobDisputed   JobStatus = "disputed"
)

var jobTransitions = map[JobStatus][]JobStatus{
	JobOpen:       {JobMatched, JobCancelled, JobDisputed},
	JobMatched:    {JobInProgress, JobDisputed},
	JobInProgress: {JobCompleted, JobDisputed},
}

func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	switch st {
	case JobOpen, JobMatched, JobInProgress, JobCompleted, JobCancelled, JobDisputed:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// CanTransitionTo reports whether the job lifecycle permits s → to.
func (s JobStatus) CanTransitionTo(to JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobCompleted, JobCancelled, JobDisputed:
		return true
	case JobOpen, JobMatched, JobInProgress:
		return false
	}
	return true
}

// Application lifecycle:
//
//	applied ──► accepted | rejected | withdrawn
//
// Every state except applied is terminal.
type ApplicationStatus string

const (
	ApplicationApplied   ApplicationStatus = "applied"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationApplied: {ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn},
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	switch st {
	case ApplicationApplied, ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

func (s ApplicationStatus) CanTransitionTo(to ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case ApplicationApplied:
		return false
	case ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return true
	}
	return true
}
