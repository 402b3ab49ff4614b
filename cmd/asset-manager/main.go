// Command asset-manager runs an OMAG server platform hosting the Asset Manager OMAS and the
// Data Engine OMAS in topic listener for every configured server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/ffdc"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/outtopic"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
	assetmanager "github.com/MihaiIliescu/egeria/internal/assetmanager/server"
	"github.com/MihaiIliescu/egeria/internal/auditlog"
	"github.com/MihaiIliescu/egeria/internal/cache"
	"github.com/MihaiIliescu/egeria/internal/config"
	"github.com/MihaiIliescu/egeria/internal/database"
	"github.com/MihaiIliescu/egeria/internal/dataengine"
	"github.com/MihaiIliescu/egeria/internal/eventclient"
	"github.com/MihaiIliescu/egeria/internal/messaging"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/internal/security"
	"github.com/MihaiIliescu/egeria/internal/server"
	"github.com/MihaiIliescu/egeria/internal/telemetry"
	"github.com/MihaiIliescu/egeria/internal/ws"
	"github.com/MihaiIliescu/egeria/pkg/logger"
)

// dataEngineUserID processes in topic events that name no user.
const dataEngineUserID = "dataengine"

// closer releases one resource on shutdown.
type closer struct {
	name string
	fn   func() error
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	var configFiles stringList
	flag.Var(&configFiles, "config", "configuration file (repeatable, later files override earlier ones)")
	printConfig := flag.Bool("print-config", false, "print the effective configuration and exit")
	flag.Parse()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	zapLogger, level := logger.NewAdjustableLogger(logLevel)
	defer func() { _ = zapLogger.Sync() }()

	if *printConfig {
		cfg, err := config.Load(zapLogger, configFiles...)
		if err == nil {
			err = cfg.WriteYAML(os.Stdout)
		}
		if err != nil {
			zapLogger.Error("failed to print configuration", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := run(zapLogger, level, configFiles); err != nil {
		zapLogger.Error("OMAG server platform failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(zapLogger *zap.Logger, level zap.AtomicLevel, configFiles []string) error {
	loader := config.NewLoader(zapLogger)
	cfg, err := loader.Load(configFiles...)
	if err != nil {
		return err
	}
	level.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	loader.Watch(func(updated *config.Config) {
		level.SetLevel(logger.ParseLevel(updated.Logging.Level))
		zapLogger.Info("log level updated; other changes apply on restart", zap.String("level", updated.Logging.Level))
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var closers []closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].fn(); err != nil {
				zapLogger.Warn("shutdown step failed", zap.String("resource", closers[i].name), zap.Error(err))
			}
		}
	}()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry, nil)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	closers = append(closers, closer{"telemetry", func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdownTelemetry(shutdownCtx)
	}})

	store, err := openStore(ctx, cfg, zapLogger, &closers)
	if err != nil {
		return err
	}

	destinations := []auditlog.Destination{auditlog.NewZapDestination(zapLogger.Named("audit"))}
	if cfg.Audit.BadgerPath != "" {
		badgerDest, err := auditlog.OpenBadgerDestination(cfg.Audit.BadgerPath)
		if err != nil {
			return err
		}
		closers = append(closers, closer{"audit log", badgerDest.Close})
		destinations = append(destinations, badgerDest)
	}

	producer, consumer := openMessaging(cfg, zapLogger, &closers)

	hub := ws.NewHub(0, zapLogger.Named("stream"))
	closers = append(closers, closer{"event stream", func() error { hub.Close(); return nil }})

	instances := assetmanager.NewInstanceHandler(security.NewVerifier(cfg.Security))
	closers = append(closers, closer{"instances", func() error { instances.Shutdown(); return nil }})

	for _, serverCfg := range cfg.Servers {
		serviceLogger := logger.ForService(zapLogger, ffdc.ServiceURLName, serverCfg.Name)
		topicPublisher := outtopic.NewTopicPublisher(producer, cfg.Kafka.OutTopic,
			auditlog.New(serverCfg.Name, ffdc.Component, serviceLogger, destinations...), serviceLogger)
		publisher := ws.NewPublisher(hub, topicPublisher, serviceLogger)

		instance, err := assetmanager.NewInstance(serverCfg, assetmanager.InstanceOptions{
			Store:              store,
			Publisher:          publisher,
			AuditDestinations:  destinations,
			OutTopicConnection: outTopicConnection(cfg),
			Logger:             serviceLogger,
		})
		if err != nil {
			return fmt.Errorf("failed to start %s for server %s: %w", ffdc.ServiceName, serverCfg.Name, err)
		}
		instances.Register(instance)

		if err := startDataEngine(ctx, cfg, serverCfg.Name, instance, consumer, destinations, zapLogger); err != nil {
			return err
		}
	}

	platform := server.NewServer(cfg.Server, telemetry.ServiceName(cfg.Telemetry), instances, zapLogger,
		server.WithEventStream(hub))
	return platform.Run(ctx)
}

func openStore(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger, closers *[]closer) (repository.Store, error) {
	var store repository.Store
	switch cfg.Database.Driver {
	case "", "memory":
		store = repository.NewMemoryStore()
	default:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, closer{"database", func() error { return database.Close(db) }})
		go database.ReportPoolStats(ctx, db, cfg.Database.Driver, 15*time.Second, zapLogger)

		gormStore, err := repository.NewGormStore(db)
		if err != nil {
			return nil, err
		}
		store = gormStore
	}

	if !cfg.Redis.Enabled {
		return store, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	*closers = append(*closers, closer{"redis", client.Close})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Address, err)
	}
	return cache.NewCachingStore(store, client, zapLogger.Named("cache"), "omag:", cfg.Redis.TTL), nil
}

// openMessaging returns Kafka clients when Kafka is enabled, otherwise an in-process bus
// that serves as both producer and consumer.
func openMessaging(cfg *config.Config, zapLogger *zap.Logger, closers *[]closer) (messaging.Producer, messaging.Consumer) {
	if !cfg.Kafka.Enabled {
		bus := messaging.NewMemoryBus(zapLogger.Named("bus"))
		*closers = append(*closers, closer{"bus", bus.Close})
		return bus, bus
	}
	kafkaCfg := messaging.KafkaConfigFrom(cfg.Kafka)
	producer := messaging.NewKafkaProducer(kafkaCfg, zapLogger.Named("kafka"))
	consumer := messaging.NewKafkaConsumer(kafkaCfg, zapLogger.Named("kafka"))
	*closers = append(*closers, closer{"kafka producer", producer.Close}, closer{"kafka consumer", consumer.Close})
	return producer, consumer
}

func outTopicConnection(cfg *config.Config) *rest.Connection {
	if cfg.Kafka.OutTopic == "" {
		return nil
	}
	return &rest.Connection{
		QualifiedName:         ffdc.ServiceName + " out topic " + cfg.Kafka.OutTopic,
		DisplayName:           ffdc.ServiceName + " out topic",
		ConnectorProviderName: eventclient.KafkaConnectorProvider,
		Endpoint:              strings.Join(cfg.Kafka.Brokers, ","),
		ConfigurationProperties: map[string]any{
			eventclient.TopicProperty: cfg.Kafka.OutTopic,
		},
	}
}

func startDataEngine(ctx context.Context, cfg *config.Config, serverName string, instance *assetmanager.Instance,
	consumer messaging.Consumer, destinations []auditlog.Destination, zapLogger *zap.Logger) error {
	if cfg.Kafka.InTopic == "" {
		return nil
	}
	engineLogger := logger.ForService(zapLogger, "data-engine", serverName)
	auditLog := auditlog.New(serverName, dataengine.Component, engineLogger, destinations...)
	processor := dataengine.NewProcessor(dataengine.ProcessorOptions{
		ServerName: serverName,
		Handler:    instance.Handler(),
		Repository: instance.Repository(),
		UserID:     dataEngineUserID,
		Logger:     engineLogger,
	})
	listener := dataengine.NewInTopicListener(processor, auditLog, engineLogger)
	if err := consumer.Subscribe(ctx, messaging.Topic(cfg.Kafka.InTopic), serverName+"-data-engine", listener.HandleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", cfg.Kafka.InTopic, err)
	}
	auditLog.LogMessage("initialize", dataengine.InTopicListenerStarted, serverName, cfg.Kafka.InTopic)
	return nil
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	if v == "" {
		return errors.New("empty value")
	}
	*s = append(*s, v)
	return nil
}
