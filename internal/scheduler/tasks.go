package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskApplicationNotify = "applications.notify"

const TaskJobPostedNotify = "jobs.posted_notify"

type ApplicationNotifyPayload struct {
	ApplicationID  string `json:"applicationId"`
	JobTitle       string `json:"jobTitle"`
	JobSlug        string `json:"jobSlug"`
	EmployerEmail  string `json:"employerEmail"`
	ApplicantName  string `json:"applicantName"`
	ApplicantEmail string `json:"applicantEmail"`
	ApplicantPhone string `json:"applicantPhone"`
	Message        string `json:"message"`
}

type JobPostedNotifyPayload struct {
	JobTitle      string `json:"jobTitle"`
	JobSlug       string `json:"jobSlug"`
	EmployerEmail string `json:"employerEmail"`
}

func NewApplicationNotifyTask(payload ApplicationNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskApplicationNotify, data), nil
}

func ParseApplicationNotifyPayload(task *asynq.Task) (ApplicationNotifyPayload, error) {
	var payload ApplicationNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ApplicationNotifyPayload{}, err
	}
	return payload, nil
}

func NewJobPostedNotifyTask(payload JobPostedNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskJobPostedNotify, data), nil
}

func ParseJobPostedNotifyPayload(task *asynq.Task) (JobPostedNotifyPayload, error) {
	var payload JobPostedNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return JobPostedNotifyPayload{}, err
	}
	return payload, nil
}
