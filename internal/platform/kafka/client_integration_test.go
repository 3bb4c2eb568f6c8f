//go:build integration

package kafka_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"namescreen/internal/platform/config"
	"namescreen/internal/platform/kafka"
	"namescreen/pkg/platform/audit"
	auditkafka "namescreen/pkg/platform/audit/store/kafka"
	"namescreen/pkg/testutil/containers"
)

type KafkaSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestKafkaSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSuite))
}

func (s *KafkaSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
}

func (s *KafkaSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	cfg := config.Kafka{Brokers: []string{s.redpanda.Broker}, Topic: "ensure.audit", Partitions: 2, ReplicationFactor: 1}

	client, err := kafka.New(ctx, cfg, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	s.Require().NoError(err)
	defer client.Close()

	created, err := kafka.EnsureTopic(ctx, client, cfg.Topic, 2, 1)
	s.Require().NoError(err)
	s.True(created)

	created, err = kafka.EnsureTopic(ctx, client, cfg.Topic, 2, 1)
	s.Require().NoError(err)
	s.False(created)
}

func (s *KafkaSuite) TestAuditEventsRoundTrip() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cfg := config.Kafka{Brokers: []string{s.redpanda.Broker}, Topic: "roundtrip.audit", CreateTopic: true, Partitions: 1, ReplicationFactor: 1}

	producer, err := kafka.New(ctx, cfg, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	s.Require().NoError(err)
	defer producer.Close()

	store := auditkafka.New(producer, cfg.Topic)
	s.Require().NoError(store.Append(ctx, audit.Event{ID: "e1", RequestID: "r1", Action: audit.ActionScreeningCompleted, MatchCount: 1}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Broker),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().NoError(fetches.Err())
	records := fetches.Records()
	s.Require().NotEmpty(records)

	var got audit.Event
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal("r1", string(records[0].Key))
	s.Equal(audit.ActionScreeningCompleted, got.Action)
}
