package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

// EmailJob is the unit of work carried to the mail transport.
type EmailJob struct {
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	HTML     string    `json:"html"`
	QueuedAt time.Time `json:"queued_at"`
}

// Dispatcher hands email jobs off without waiting for delivery.
type Dispatcher interface {
	Enqueue(ctx context.Context, job EmailJob) error
}

type kafkaDispatcher struct {
	writer *kafka.Writer
}

// NewKafkaDispatcher publishes jobs to the email topic; a consumer started
// with RunEmailConsumer performs delivery.
func NewKafkaDispatcher(writer *kafka.Writer) Dispatcher {
	return &kafkaDispatcher{writer: writer}
}

func (d *kafkaDispatcher) Enqueue(ctx context.Context, job EmailJob) error {
	if job.QueuedAt.IsZero() {
		job.QueuedAt = time.Now()
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}
	return d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(job.To),
		Value: payload,
	})
}

type asyncDispatcher struct {
	mailer Mailer
	log    *zap.Logger
}

// NewAsyncDispatcher delivers each job on its own goroutine.
func NewAsyncDispatcher(mailer Mailer, log *zap.Logger) Dispatcher {
	return &asyncDispatcher{mailer: mailer, log: log}
}

func (d *asyncDispatcher) Enqueue(_ context.Context, job EmailJob) error {
	go deliver(d.mailer, d.log, job)
	return nil
}

func deliver(mailer Mailer, log *zap.Logger, job EmailJob) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := mailer.Send(ctx, job.To, job.Subject, job.HTML); err != nil {
		log.Error("❌ Failed to send email",
			zap.String("to", job.To),
			zap.String("subject", job.Subject),
			zap.Error(err),
		)
		return
	}
	log.Info("✅ Email sent", zap.String("to", job.To), zap.String("subject", job.Subject))
}

// RunEmailConsumer reads jobs from the email topic until ctx is cancelled.
// Failed deliveries are logged and not retried.
func RunEmailConsumer(ctx context.Context, reader *kafka.Reader, mailer Mailer, log *zap.Logger) {
	log.Info("📨 Email consumer started", zap.String("topic", reader.Config().Topic))
	defer reader.Close()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info("📨 Email consumer stopped")
				return
			}
			log.Error("❌ Kafka read failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		var job EmailJob
		if err := json.Unmarshal(msg.Value, &job); err != nil {
			log.Warn("⚠️ Skipping malformed email job", zap.Int64("offset", msg.Offset), zap.Error(err))
			continue
		}
		deliver(mailer, log, job)
	}
}
