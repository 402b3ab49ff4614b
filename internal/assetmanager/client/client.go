// Package client calls the asset manager REST API of a remote OMAG server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/rehttp"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
	"github.com/MihaiIliescu/egeria/pkg/errors"
	"github.com/MihaiIliescu/egeria/pkg/validation"
)

const serviceURLMarker = "/open-metadata/access-services/asset-manager/users/"

// RetryConfig controls how failed calls are retried.
type RetryConfig struct {
	MaxRetries      int
	TemporaryErrors bool
	Statuses        []int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
}

// DefaultRetryConfig retries connection failures and gateway errors a few times.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		TemporaryErrors: true,
		Statuses:        []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
		BaseDelay:       100 * time.Millisecond,
		MaxDelay:        2 * time.Second,
	}
}

// Option configures a client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	retry      RetryConfig
	token      string
	logger     *zap.Logger
	maxPage    int
}

// WithHTTPClient sets the client whose transport is wrapped with retries.
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.httpClient = c } }

// WithRetry replaces the default retry behavior.
func WithRetry(conf RetryConfig) Option { return func(o *options) { o.retry = conf } }

// WithBearerToken sends token in the Authorization header of every call.
func WithBearerToken(token string) Option { return func(o *options) { o.token = token } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.logger = l } }

// WithMaxPageSize sets the largest page size the client will ask for.
func WithMaxPageSize(n int) Option { return func(o *options) { o.maxPage = n } }

// NewRetryableClient returns a copy of base whose transport retries as conf describes. A nil
// base gets a client with a 30 second timeout.
func NewRetryableClient(base *http.Client, conf RetryConfig) *http.Client {
	if base == nil {
		base = &http.Client{Timeout: 30 * time.Second}
	}
	out := *base
	if conf.MaxRetries <= 0 {
		return &out
	}

	var statusRetries []rehttp.RetryFn
	if len(conf.Statuses) > 0 {
		statusRetries = append(statusRetries, rehttp.RetryStatuses(conf.Statuses...))
	}
	if conf.TemporaryErrors {
		statusRetries = append(statusRetries, rehttp.RetryTemporaryErr())
	}
	if len(statusRetries) == 0 {
		return &out
	}
	retryFns := []rehttp.RetryFn{
		rehttp.RetryAny(statusRetries...),
		rehttp.RetryMaxRetries(conf.MaxRetries),
	}
	out.Transport = rehttp.NewTransport(base.Transport, rehttp.RetryAll(retryFns...),
		rehttp.ExpJitterDelay(conf.BaseDelay, conf.MaxDelay))
	return &out
}

// restClient is the transport shared by the asset manager clients.
type restClient struct {
	serverName  string
	platformURL string
	http        *http.Client
	token       string
	invalid     *validation.InvalidParameterHandler
	logger      *zap.Logger
}

func newRESTClient(serverName, platformURLRoot, methodName string, opts []Option) (*restClient, error) {
	o := options{retry: DefaultRetryConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	invalid := validation.NewInvalidParameterHandler(o.maxPage, o.logger)
	if err := invalid.ValidateOMAGServerPlatformURL(platformURLRoot, serverName, methodName); err != nil {
		return nil, err
	}
	if err := invalid.ValidateName(serverName, "serverName", methodName); err != nil {
		return nil, err
	}
	return &restClient{
		serverName:  serverName,
		platformURL: strings.TrimSuffix(platformURLRoot, "/"),
		http:        NewRetryableClient(o.httpClient, o.retry),
		token:       o.token,
		invalid:     invalid,
		logger:      o.logger,
	}, nil
}

func (c *restClient) url(userID, path string, query url.Values) string {
	u := c.platformURL + "/servers/" + url.PathEscape(c.serverName) + serviceURLMarker + url.PathEscape(userID) + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// call sends one request and decodes the response into out. Exceptions returned by the
// server come back as *errors.Error.
func (c *restClient) call(ctx context.Context, httpMethod, methodName, userID, path string, query url.Values,
	body any, out rest.ExceptionCarrier) error {
	if err := c.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	target := c.url(userID, path, query)

	if isNilBody(body) {
		body = nil
	}
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.PropertyServer(errors.RemoteCallFailed, methodName, err,
				methodName, c.serverName, c.platformURL, err.Error())
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, httpMethod, target, reader)
	if err != nil {
		return c.remoteFailure(methodName, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.remoteFailure(methodName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var problem errors.ProblemDetails
		detail := resp.Status
		if json.NewDecoder(resp.Body).Decode(&problem) == nil && problem.Detail != "" {
			detail = problem.Detail
		}
		if resp.StatusCode == http.StatusBadRequest {
			return errors.InvalidParameter(errors.RemoteCallFailed, methodName, "requestBody",
				methodName, c.serverName, c.platformURL, detail).From("client.LineageExchangeClient")
		}
		return c.remoteFailure(methodName, fmt.Errorf("HTTP %d: %s", resp.StatusCode, detail))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.remoteFailure(methodName, err)
	}
	c.logger.Debug("remote call returned",
		zap.String("server", c.serverName),
		zap.String("method", methodName),
		zap.Int("relatedHTTPCode", out.Exception().RelatedHTTPCode))
	return ExceptionFromResponse(out.Exception())
}

func (c *restClient) remoteFailure(methodName string, err error) error {
	return errors.PropertyServer(errors.RemoteCallFailed, methodName, err,
		methodName, c.serverName, c.platformURL, err.Error()).From("client.LineageExchangeClient")
}

// ExceptionFromResponse rebuilds the exception carried by a response, or returns nil when
// the call worked.
func ExceptionFromResponse(r *rest.APIResponse) error {
	if r == nil || !r.Failed() {
		return nil
	}
	kind := errors.Kind(r.ExceptionClassName)
	switch kind {
	case errors.KindInvalidParameter, errors.KindUserNotAuthorized, errors.KindPropertyServer:
	default:
		kind = errors.KindPropertyServer
	}
	e := &errors.Error{
		Kind:            kind,
		HTTPCode:        r.RelatedHTTPCode,
		ReportingAction: r.ActionDescription,
		MessageID:       r.ExceptionErrorMessageID,
		Message:         r.ExceptionErrorMessage,
		Parameters:      r.ExceptionErrorMessageParameters,
		SystemAction:    r.ExceptionSystemAction,
		UserAction:      r.ExceptionUserAction,
	}
	for k, v := range r.ExceptionProperties {
		switch {
		case k == "parameterName" && kind == errors.KindInvalidParameter:
			e.ParameterName = v
		case k == "userId" && kind == errors.KindUserNotAuthorized:
			e.UserID = v
		default:
			e.WithProperty(k, v)
		}
	}
	if r.ExceptionCausedBy != "" {
		e.WithProperty("causedBy", r.ExceptionCausedBy)
	}
	return e
}

// isNilBody treats a typed nil pointer as no body at all; the server distinguishes a
// missing body from an empty one.
func isNilBody(body any) bool {
	if body == nil {
		return true
	}
	v := reflect.ValueOf(body)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func pagingQuery(startFrom, pageSize int) url.Values {
	return url.Values{
		"startFrom": {strconv.Itoa(startFrom)},
		"pageSize":  {strconv.Itoa(pageSize)},
	}
}

func flagQuery(name string, value bool) url.Values {
	return url.Values{name: {strconv.FormatBool(value)}}
}
