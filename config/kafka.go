package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaBrokers returns the broker address list from the environment.
func KafkaBrokers() []string {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = os.Getenv("KAFKA_BROKER")
	}
	if brokers == "" {
		brokers = "localhost:29092"
	}
	return strings.Split(brokers, ",")
}

// NotificationTopic returns the topic the notification pipeline runs on.
func NotificationTopic() string {
	topic := os.Getenv("NOTIF_TOPIC")
	if topic == "" {
		topic = "notifications.push"
	}
	return topic
}

// KafkaGroupID returns the consumer group id for the notification service.
func KafkaGroupID() string {
	groupID := os.Getenv("KAFKA_GROUP_ID")
	if groupID == "" {
		groupID = "notification-service-group"
	}
	return groupID
}

// NewKafkaWriter creates the shared producer connection. The topic is set
// per message so one writer serves both domain and notification topics. The
// hash balancer keeps same-key messages on one partition, which is what
// keeps a single user's notifications in order.
func NewKafkaWriter() *kafka.Writer {
	brokers := KafkaBrokers()
	log.Printf("Kafka producer connected to %s", strings.Join(brokers, ","))

	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaReader creates a consumer-group reader for one topic. Offsets are
// committed explicitly by the consumer loop, never automatically.
func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     KafkaBrokers(),
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
		StartOffset: kafka.LastOffset,
	})
}
