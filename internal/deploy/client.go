package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/homepresso/formgraph/internal/config"
	"github.com/homepresso/formgraph/internal/observability"
	"github.com/homepresso/formgraph/model"
)

// maxResponseBytes caps deployment response bodies.
const maxResponseBytes = 10 << 20

// Client deploys views over HTTP against the runtime API described by an
// indexed OpenAPI spec, with circuit breaker protection and bearer-token
// authentication.
type Client struct {
	index   *Index
	client  *http.Client
	breaker *CircuitBreaker
	tokens  *TokenSource
	log     *zap.Logger
}

// deployResponse is the runtime's answer to a view deployment.
type deployResponse struct {
	ViewID         string `json:"view_id"`
	ViewInstanceID string `json:"view_instance_id"`
}

// NewClient builds an HTTP deployer from the runtime configuration. The
// OpenAPI spec file is loaded and indexed up front so a malformed spec
// fails the run before any form is processed.
func NewClient(cfg config.RuntimeConfig, log *zap.Logger) (*Client, error) {
	idx := NewIndex()
	if err := idx.Load(cfg.SpecFile, cfg.BaseURL); err != nil {
		return nil, err
	}
	if _, ok := idx.GetOperation(OpDeployView); !ok {
		return nil, fmt.Errorf("deploy: runtime spec %s declares no %s operation", cfg.SpecFile, OpDeployView)
	}

	tokens, err := NewTokenSource(cfg.Auth)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		index:   idx,
		client:  &http.Client{Timeout: timeout, Transport: transport},
		breaker: NewCircuitBreaker(cfg.Breaker.FailureThreshold, cfg.Breaker.SuccessThreshold, cfg.Breaker.Timeout),
		tokens:  tokens,
		log:     log,
	}, nil
}

// DeployView pushes one view document to the runtime and returns the
// identifiers it assigned.
func (c *Client) DeployView(ctx context.Context, formName string, view *model.View) (model.ViewIdentifiers, error) {
	op, ok := c.index.GetOperation(OpDeployView)
	if !ok {
		return model.ViewIdentifiers{}, fmt.Errorf("deploy: operation %s not indexed", OpDeployView)
	}

	if err := c.breaker.Allow(); err != nil {
		return model.ViewIdentifiers{}, fmt.Errorf("deploy: runtime unavailable: %w", err)
	}

	body, err := json.Marshal(view)
	if err != nil {
		return model.ViewIdentifiers{}, fmt.Errorf("deploy: marshal view %s: %w", view.Name, err)
	}

	reqURL := buildRequestURL(op, map[string]string{"form": formName})
	req, err := http.NewRequestWithContext(ctx, op.Method, reqURL, bytes.NewReader(body))
	if err != nil {
		return model.ViewIdentifiers{}, fmt.Errorf("deploy: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	token, err := c.tokens.Token()
	if err != nil {
		return model.ViewIdentifiers{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	observability.InjectTraceHeaders(ctx, req.Header)

	resp, err := c.client.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		return model.ViewIdentifiers{}, fmt.Errorf("deploy: view %s: %w", view.Name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.breaker.RecordFailure()
		return model.ViewIdentifiers{}, fmt.Errorf("deploy: read response for view %s: %w", view.Name, err)
	}

	if resp.StatusCode >= 500 {
		c.breaker.RecordFailure()
		return model.ViewIdentifiers{}, fmt.Errorf("deploy: view %s: runtime returned %d", view.Name, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		// Client errors are not infrastructure failures; the breaker stays
		// untouched.
		return model.ViewIdentifiers{}, fmt.Errorf("deploy: view %s rejected with %d: %s", view.Name, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	c.breaker.RecordSuccess()

	var parsed deployResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return model.ViewIdentifiers{}, fmt.Errorf("deploy: decode response for view %s: %w", view.Name, err)
	}
	if parsed.ViewID == "" || parsed.ViewInstanceID == "" {
		return model.ViewIdentifiers{}, fmt.Errorf("deploy: view %s: runtime response missing identifiers", view.Name)
	}

	c.log.Debug("view deployed",
		zap.String("form", formName),
		zap.String("view", view.Name),
		zap.String("view_id", parsed.ViewID),
	)

	return model.ViewIdentifiers{ViewID: parsed.ViewID, ViewInstanceID: parsed.ViewInstanceID}, nil
}

// buildRequestURL substitutes path parameters into the operation's path
// template and prefixes the base URL.
func buildRequestURL(op IndexedOperation, pathParams map[string]string) string {
	path := op.PathTemplate
	for name, value := range pathParams {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	return op.BaseURL + path
}
