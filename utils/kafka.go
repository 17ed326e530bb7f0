package utils

import (
	"time"

	"github.com/housefit/apartment-management-backend/config"
	"github.com/segmentio/kafka-go"
)

// KafkaEnabled reports whether brokers are configured.
func KafkaEnabled(cfg *config.Config) bool {
	return len(cfg.KafkaBrokers) > 0
}

// NewKafkaWriter returns a writer for the email topic.
func NewKafkaWriter(cfg *config.Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaEmailTopic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaReader returns a consumer-group reader for the email topic.
func NewKafkaReader(cfg *config.Config) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  cfg.KafkaGroupID,
		Topic:    cfg.KafkaEmailTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
}
