package scheduler

import (
	"context"
	"fmt"
	"strings"

	"tradecareers_backend/internal/email"
	"tradecareers_backend/platform/config"
	"tradecareers_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker drains the notification queue and delivers the emails it holds.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	sender  email.Sender
	baseURL string
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, httpCfg config.HTTPConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetSchedulerRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("scheduler redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetSchedulerTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetSchedulerQueue()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetSchedulerConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		sender:  sender,
		baseURL: strings.TrimRight(httpCfg.GetPublicBaseURL(), "/"),
		log:     log,
	}

	mux.HandleFunc(TaskApplicationNotify, w.handleApplicationNotify)
	mux.HandleFunc(TaskJobPostedNotify, w.handleJobPostedNotify)

	return w, nil
}

func (w *Worker) handleApplicationNotify(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseApplicationNotifyPayload(task)
	if err != nil {
		return err
	}

	if payload.EmployerEmail == "" {
		return nil
	}

	data := email.NewApplicationReceivedData(
		payload.JobTitle,
		payload.ApplicantName,
		payload.ApplicantEmail,
		payload.ApplicantPhone,
		payload.Message,
		w.jobURL(payload.JobSlug),
	)

	return w.sender.SendApplicationReceived(ctx, payload.EmployerEmail, data)
}

func (w *Worker) handleJobPostedNotify(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseJobPostedNotifyPayload(task)
	if err != nil {
		return err
	}

	if payload.EmployerEmail == "" {
		return nil
	}

	data := email.NewJobPostedData(payload.JobTitle, w.jobURL(payload.JobSlug))
	return w.sender.SendJobPostedConfirmation(ctx, payload.EmployerEmail, data)
}

func (w *Worker) jobURL(slug string) string {
	return w.baseURL + "/jobs/" + slug
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
