// Package eventclient connects listeners to the out topic of an access service. The
// connection to the topic is fetched from the service, so callers only need the platform
// URL and server name.
package eventclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/client"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
	"github.com/MihaiIliescu/egeria/pkg/errors"
	"github.com/MihaiIliescu/egeria/pkg/validation"
)

// Config names the service whose out topic is read.
type Config struct {
	ServerName      string
	PlatformURLRoot string
	// ServiceURLName is the service segment of the URL, such as asset-manager.
	ServiceURLName string
	// ServiceName is the display name used in messages.
	ServiceName string
	// CallerID names the listening server; it defaults to ServerName.
	CallerID    string
	BearerToken string
	MaxPageSize int
	HTTPClient  *http.Client
	Retry       *client.RetryConfig
	Broker      ConnectorBroker
	Logger      *zap.Logger
}

// EventClient registers listeners on the out topic of one server.
type EventClient struct {
	cfg     Config
	http    *http.Client
	broker  ConnectorBroker
	invalid *validation.InvalidParameterHandler
	logger  *zap.Logger

	mu         sync.Mutex
	connectors []OutTopicConnector
}

// New validates cfg and creates a client. Without a broker, Kafka connections are served by
// a KafkaConnectorBroker.
func New(cfg Config) (*EventClient, error) {
	const methodName = "NewEventClient"
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	invalid := validation.NewInvalidParameterHandler(cfg.MaxPageSize, logger)
	if err := invalid.ValidateOMAGServerPlatformURL(cfg.PlatformURLRoot, cfg.ServerName, methodName); err != nil {
		return nil, err
	}
	if err := invalid.ValidateName(cfg.ServiceURLName, "serviceURLName", methodName); err != nil {
		return nil, err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = cfg.ServiceURLName
	}
	if cfg.CallerID == "" {
		cfg.CallerID = cfg.ServerName
	}
	retry := client.DefaultRetryConfig()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}
	broker := cfg.Broker
	if broker == nil {
		broker = &KafkaConnectorBroker{Logger: logger}
	}
	return &EventClient{
		cfg:     cfg,
		http:    client.NewRetryableClient(cfg.HTTPClient, retry),
		broker:  broker,
		invalid: invalid,
		logger:  logger.With(zap.String("server", cfg.ServerName), zap.String("service", cfg.ServiceURLName)),
	}, nil
}

// ServerName returns the name of the server whose events are read.
func (c *EventClient) ServerName() string { return c.cfg.ServerName }

// RegisterListener fetches the out topic connection, starts a connector for it and
// registers listener with that connector.
func (c *EventClient) RegisterListener(ctx context.Context, userID string, listener Listener) error {
	const methodName = "registerListener"

	if err := c.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if err := c.invalid.ValidateObject(listener, "listener", methodName); err != nil {
		return err
	}

	connection, err := c.outTopicConnection(ctx, userID, methodName)
	if err != nil {
		return err
	}

	raw, err := c.broker.GetConnector(ctx, connection)
	if err != nil {
		return errors.PropertyServer(errors.NullConnectorReturned, methodName, err,
			connection.QualifiedName, c.cfg.ServiceName, c.cfg.ServerName, c.cfg.PlatformURLRoot).
			From("eventclient.EventClient")
	}
	if raw == nil {
		return errors.PropertyServer(errors.NullConnectorReturned, methodName, nil,
			connection.QualifiedName, c.cfg.ServiceName, c.cfg.ServerName, c.cfg.PlatformURLRoot).
			From("eventclient.EventClient")
	}
	connector, ok := raw.(OutTopicConnector)
	if !ok {
		return errors.PropertyServer(errors.WrongTypeOfConnector, methodName, nil,
			connection.QualifiedName, c.cfg.ServiceName, c.cfg.ServerName, c.cfg.PlatformURLRoot,
			"eventclient.OutTopicConnector").
			WithProperty("connectorType", fmt.Sprintf("%T", raw)).
			From("eventclient.EventClient")
	}

	// The connector outlives the registering call.
	if err := connector.Start(context.WithoutCancel(ctx)); err != nil {
		return errors.PropertyServer(errors.RemoteCallFailed, methodName, err,
			methodName, c.cfg.ServerName, c.cfg.PlatformURLRoot, err.Error()).From("eventclient.EventClient")
	}
	if err := connector.RegisterListener(userID, listener); err != nil {
		_ = connector.Disconnect()
		return errors.PropertyServer(errors.RemoteCallFailed, methodName, err,
			methodName, c.cfg.ServerName, c.cfg.PlatformURLRoot, err.Error()).From("eventclient.EventClient")
	}

	c.mu.Lock()
	c.connectors = append(c.connectors, connector)
	c.mu.Unlock()
	c.logger.Info("listener registered", zap.String("user", userID), zap.String("connection", connection.QualifiedName))
	return nil
}

func (c *EventClient) outTopicConnection(ctx context.Context, userID, methodName string) (*rest.Connection, error) {
	target := strings.TrimSuffix(c.cfg.PlatformURLRoot, "/") +
		"/servers/" + url.PathEscape(c.cfg.ServerName) +
		"/open-metadata/access-services/" + c.cfg.ServiceURLName +
		"/users/" + url.PathEscape(userID) +
		"/topics/out-topic-connection/" + url.PathEscape(c.cfg.CallerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, c.remoteFailure(methodName, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.remoteFailure(methodName, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.remoteFailure(methodName, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	response := rest.NewConnectionResponse()
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return nil, c.remoteFailure(methodName, err)
	}
	if err := client.ExceptionFromResponse(&response.APIResponse); err != nil {
		return nil, err
	}
	if response.Connection == nil {
		return nil, errors.PropertyServer(errors.NullConnectorReturned, methodName, nil,
			"<none>", c.cfg.ServiceName, c.cfg.ServerName, c.cfg.PlatformURLRoot).From("eventclient.EventClient")
	}
	return response.Connection, nil
}

func (c *EventClient) remoteFailure(methodName string, err error) error {
	return errors.PropertyServer(errors.RemoteCallFailed, methodName, err,
		methodName, c.cfg.ServerName, c.cfg.PlatformURLRoot, err.Error()).From("eventclient.EventClient")
}

// Close disconnects every connector started by the client.
func (c *EventClient) Close() error {
	c.mu.Lock()
	connectors := c.connectors
	c.connectors = nil
	c.mu.Unlock()

	var errs []error
	for _, connector := range connectors {
		if err := connector.Disconnect(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
