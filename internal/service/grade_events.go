package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-exam-api/internal/dto"
)

// GradedEventType names the event published after a submission commits as GRADED.
const GradedEventType = "submission.graded"

// GradeEventPublisher broadcasts grading results to downstream consumers.
type GradeEventPublisher interface {
	PublishGraded(ctx context.Context, event dto.SubmissionGradedEvent) error
}

type gradeEnvelope struct {
	Type       string                    `json:"type"`
	Source     string                    `json:"source"`
	Submission dto.SubmissionGradedEvent `json:"submission"`
	SentAt     time.Time                 `json:"sent_at"`
}

type gradeEventPublisher struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	nodeID       string
	logger       zerolog.Logger
}

// NewGradeEventPublisher publishes grade events to redis pub/sub and NATS. Either transport
// may be nil, in which case it is skipped.
func NewGradeEventPublisher(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) GradeEventPublisher {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = GradedChannel(channelBase)
		subject = strings.ReplaceAll(channelBase, ":", ".") + "." + GradedEventType
	}

	return &gradeEventPublisher{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		nodeID:       uuid.NewString(),
		logger:       logger.With().Str("component", "grade_events").Logger(),
	}
}

// GradedChannel returns the redis channel grade events are published on.
func GradedChannel(channelBase string) string {
	return channelBase + ":" + GradedEventType
}

func (p *gradeEventPublisher) PublishGraded(ctx context.Context, event dto.SubmissionGradedEvent) error {
	payload, err := json.Marshal(gradeEnvelope{
		Type:       GradedEventType,
		Source:     p.nodeID,
		Submission: event,
		SentAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	var errs []error
	if p.redis != nil && p.redisChannel != "" {
		if err := p.redis.Publish(ctx, p.redisChannel, payload).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis publish: %w", err))
		}
	}

	if p.nats != nil && p.natsSubject != "" {
		if err := p.nats.Publish(p.natsSubject, payload); err != nil {
			errs = append(errs, fmt.Errorf("nats publish: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	p.logger.Debug().Uint("submission_id", event.SubmissionID).Msg("grade event published")
	return nil
}
