package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"tradecareers_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	client *asynq.Client
	queue  string
}

// NotifyEnqueuer is what the notification module needs from the scheduler.
type NotifyEnqueuer interface {
	EnqueueApplicationNotify(ctx context.Context, payload ApplicationNotifyPayload) error
	EnqueueJobPostedNotify(ctx context.Context, payload JobPostedNotifyPayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) EnqueueApplicationNotify(ctx context.Context, payload ApplicationNotifyPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewApplicationNotifyTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func (c *Client) EnqueueJobPostedNotify(ctx context.Context, payload JobPostedNotifyPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewJobPostedNotifyTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
