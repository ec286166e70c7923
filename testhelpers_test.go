//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/trattoria-luca/service-booking/internal/application"
	"github.com/trattoria-luca/service-booking/internal/domain/catalog"
	bookingEvents "github.com/trattoria-luca/service-booking/internal/events"
	"github.com/trattoria-luca/service-booking/internal/notify"
	"github.com/trattoria-luca/service-booking/internal/platform/database"
	"github.com/trattoria-luca/service-booking/internal/platform/kafka"
	"github.com/trattoria-luca/service-booking/internal/repository"
	"github.com/trattoria-luca/service-booking/migrations"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	Redis        *redis.Client
	KafkaBrokers []string
	Cleanup      func()
}

// bookingStack holds wired-up booking service components.
type bookingStack struct {
	Forms      *application.FormService
	Submission *application.SubmissionService
	Publisher  *bookingEvents.BookingPublisher
	Consumer   *bookingEvents.NotificationConsumer
	Telegram   *telegramRecorder
	Location   *time.Location
	Cleanup    func()
}

// telegramRecorder stands in for the Bot API and keeps every message text.
type telegramRecorder struct {
	mu       sync.Mutex
	messages []string
	server   *httptest.Server
}

func newTelegramRecorder() *telegramRecorder {
	rec := &telegramRecorder{}
	rec.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.messages = append(rec.messages, string(body))
		rec.mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	return rec
}

func (r *telegramRecorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// setupContainers starts PostgreSQL, Redis and Kafka testcontainers.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	// Start PostgreSQL container with log-based wait strategy.
	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_booking",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pgConfig := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_booking",
		SSLMode:  "disable",
	}
	logger := zap.NewNop()

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(pgConfig, logger)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(pgConfig.DatabaseURL(), migrations.Files, logger))

	// Start Redis container.
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start Redis container")
	redisHost, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: net.JoinHostPort(redisHost, redisPort.Port())})
	require.NoError(t, rdb.Ping(ctx).Err())

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	// Pre-create required topics.
	createTopics(t, kafkaBrokers, bookingEvents.TopicBookingEvents)

	cleanup := func() {
		_ = rdb.Close()
		for name, c := range map[string]testcontainers.Container{
			"Kafka": kafkaContainer, "Redis": redisContainer, "PostgreSQL": pgContainer,
		} {
			if err := c.Terminate(ctx); err != nil {
				t.Logf("failed to terminate %s container: %v", name, err)
			}
		}
	}

	return &testInfra{
		DB:           db,
		Redis:        rdb,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupBookingStack wires up the full submission and notification path.
func setupBookingStack(t *testing.T, infra *testInfra) *bookingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)
	store, err := catalog.Default()
	require.NoError(t, err)

	producer := kafka.NewProducer(infra.KafkaBrokers, logger)
	publisher := bookingEvents.NewBookingPublisher(producer, bookingEvents.TopicBookingEvents, logger)

	bookingRepo := repository.NewGormBookingRepository(infra.DB, publisher, logger)
	drafts := repository.NewRedisDraftStore(infra.Redis, time.Hour, 30*time.Second)

	telegram := newTelegramRecorder()
	client := notify.NewTelegramClient(notify.TelegramConfig{
		BotToken: "123:test",
		ChatID:   "-100",
		BaseURL:  telegram.server.URL,
	}, nil)
	dispatcher := notify.NewDispatcher(client, loc, logger)

	groupID := fmt.Sprintf("test-notify-%s", uuid.New().String()[:8])
	consumer := bookingEvents.NewNotificationConsumer(infra.KafkaBrokers, groupID, bookingEvents.TopicBookingEvents, dispatcher, logger)

	return &bookingStack{
		Forms:      application.NewFormService(drafts, store, loc, logger),
		Submission: application.NewSubmissionService(drafts, bookingRepo, store, loc, logger),
		Publisher:  publisher,
		Consumer:   consumer,
		Telegram:   telegram,
		Location:   loc,
		Cleanup: func() {
			publisher.Wait()
			_ = consumer.Close()
			_ = producer.Close()
			telegram.server.Close()
		},
	}
}

// applyActions starts a draft and feeds it the given JSON actions.
func applyActions(t *testing.T, stack *bookingStack, actions ...string) string {
	t.Helper()
	ctx := context.Background()
	view, err := stack.Forms.Start(ctx)
	require.NoError(t, err)
	for _, a := range actions {
		_, err := stack.Forms.Apply(ctx, view.SessionID, []byte(a))
		require.NoError(t, err, a)
	}
	return view.SessionID
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		var ce kafka.CloudEvent
		if err := json.Unmarshal(msg.Value, &ce); err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics via the controller broker.
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err)
	defer func() { _ = ctrlConn.Close() }()

	configs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		configs[i] = kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}
	}
	require.NoError(t, ctrlConn.CreateTopics(configs...))

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
