//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"investogun/internal/audit"
	"investogun/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *audit.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	ctx := context.Background()
	db, err := audit.OpenPostgres(ctx, s.pg.DSN)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })

	s.store = audit.NewPostgresStore(db)
	s.Require().NoError(s.store.EnsureSchema(ctx))
	s.Require().NoError(s.store.EnsureSchema(ctx), "schema creation is idempotent")
}

func (s *PostgresStoreSuite) TearDownSuite() {
	s.pg.Terminate(s.T())
}

func (s *PostgresStoreSuite) TestAppendAndList() {
	ctx := context.Background()
	draftID := uuid.New()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	first := audit.Event{ID: uuid.New(), Action: audit.ActionDraftCreated, DraftID: draftID, Timestamp: base}
	second := audit.Event{ID: uuid.New(), Action: audit.ActionSubmissionFailed, DraftID: draftID, Reason: "status 502", Client: "Firefox 120.0 / Linux", Timestamp: base.Add(time.Minute)}

	s.Require().NoError(s.store.Append(ctx, second))
	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, first), "duplicate delivery is ignored")
	s.Require().NoError(s.store.Append(ctx, audit.Event{ID: uuid.New(), Action: audit.ActionDraftReset, DraftID: uuid.New(), Timestamp: base}))

	events, err := s.store.ListByDraft(ctx, draftID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.ActionDraftCreated, events[0].Action)
	s.Equal(audit.ActionSubmissionFailed, events[1].Action)
	s.Equal("status 502", events[1].Reason)
	s.Equal("Firefox 120.0 / Linux", events[1].Client)
}

func TestKafkaSinkProducesKeyedRecords(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	defer rp.Terminate(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const topic = "kyc.submissions.test"
	sink, err := audit.NewKafkaSink([]string{rp.Broker}, topic)
	require.NoError(t, err)
	defer sink.Close()
	require.NoError(t, sink.EnsureTopic(ctx, 1, 1))
	require.NoError(t, sink.EnsureTopic(ctx, 1, 1), "existing topic is accepted")

	event := audit.Event{ID: uuid.New(), Action: audit.ActionSubmissionSucceeded, DraftID: uuid.New(), Timestamp: time.Now().UTC()}
	require.NoError(t, sink.Append(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.NotEmpty(t, records)

	require.Equal(t, event.DraftID.String(), string(records[0].Key))
	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, event.ID, got.ID)
	require.Equal(t, audit.ActionSubmissionSucceeded, got.Action)
}
