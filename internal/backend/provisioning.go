package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/velosovictor/graforest-mcp/internal/logging"
)

// DefaultProvisioningURL is the public provisioning gateway endpoint,
// overridable via flag or the RATIONALBLOKS_MCP_URL env var.
const DefaultProvisioningURL = "https://logicblok.rationalbloks.com"

// executePath is the single RPC endpoint of the provisioning gateway.
const executePath = "/api/mcp/execute"

// Deployment job states reported by get_job_status.
const (
	jobStatusCompleted = "completed"
	jobStatusFailed    = "failed"
	jobStatusError     = "error"
)

// ProvisioningClient talks to the RationalBloks provisioning gateway using
// the graforest service-account key. This is the only type in the codebase
// that carries that key.
type ProvisioningClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	policy     Policy
	logger     *slog.Logger
}

// ProvisioningOption configures a ProvisioningClient.
type ProvisioningOption func(*ProvisioningClient)

// WithProvisioningHTTPClient sets a custom HTTP client.
func WithProvisioningHTTPClient(c *http.Client) ProvisioningOption {
	return func(p *ProvisioningClient) {
		p.httpClient = c
	}
}

// NewProvisioningClient creates a client for the provisioning gateway.
// An empty baseURL falls back to DefaultProvisioningURL.
func NewProvisioningClient(baseURL, serviceKey string, policy Policy, logger *slog.Logger, opts ...ProvisioningOption) *ProvisioningClient {
	if baseURL == "" {
		baseURL = DefaultProvisioningURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &ProvisioningClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{},
		policy:     policy.normalize(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// executeResponse is the provisioning gateway's RPC envelope.
type executeResponse struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   string          `json:"error"`
}

// execute runs one provisioning tool via POST /api/mcp/execute.
func (p *ProvisioningClient) execute(ctx context.Context, tool string, arguments map[string]any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, p.policy.ProvisioningRequestTimeout)
	defer cancel()

	if arguments == nil {
		arguments = map[string]any{}
	}
	payload, err := json.Marshal(map[string]any{
		"tool":      tool,
		"arguments": arguments,
	})
	if err != nil {
		return nil, &BackendError{Backend: "provisioning", Operation: tool, Kind: ErrInternal, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+executePath, bytes.NewReader(payload))
	if err != nil {
		return nil, &BackendError{Backend: "provisioning", Operation: tool, Kind: ErrInternal, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &BackendError{
			Backend:   "provisioning",
			Operation: tool,
			Kind:      classifyTransportError(err),
			Err:       err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &BackendError{
			Backend:    "provisioning",
			Operation:  tool,
			StatusCode: resp.StatusCode,
			Kind:       classifyStatus(resp.StatusCode),
			Detail:     summarizeBody(raw),
		}
	}

	var envelope executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &BackendError{Backend: "provisioning", Operation: tool, Kind: ErrInternal, Err: err}
	}
	if !envelope.Success {
		detail := envelope.Error
		if detail == "" {
			detail = "unknown error"
		}
		return nil, &BackendError{
			Backend:   "provisioning",
			Operation: tool,
			Kind:      ErrBackendRejected,
			Detail:    detail,
		}
	}
	return envelope.Result, nil
}

// executeRead wraps execute in the retry policy for idempotent operations.
func (p *ProvisioningClient) executeRead(ctx context.Context, tool string, arguments map[string]any) (json.RawMessage, error) {
	var result json.RawMessage
	err := doWithRetry(ctx, p.policy.RetryAttempts, p.policy.RetryBackoff, func() error {
		var opErr error
		result, opErr = p.execute(ctx, tool, arguments)
		return opErr
	})
	return result, err
}

// decodeObject unmarshals a result envelope into a map.
func decodeObject(operation string, raw json.RawMessage) (map[string]any, error) {
	var out map[string]any
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &BackendError{Backend: "provisioning", Operation: operation, Kind: ErrInternal, Err: err}
	}
	return out, nil
}

// ListProjects returns all projects under the service account. The gateway
// returns either a bare array or an object with a projects field.
func (p *ProvisioningClient) ListProjects(ctx context.Context) ([]map[string]any, error) {
	raw, err := p.executeRead(ctx, "list_projects", nil)
	if err != nil {
		return nil, err
	}

	var asList []map[string]any
	if err := json.Unmarshal(raw, &asList); err == nil {
		return asList, nil
	}

	var asObject struct {
		Projects []map[string]any `json:"projects"`
	}
	if err := json.Unmarshal(raw, &asObject); err == nil {
		return asObject.Projects, nil
	}
	return []map[string]any{}, nil
}

// DeleteProject deletes a project and all associated resources. This is a
// destructive write: one attempt, never retried.
func (p *ProvisioningClient) DeleteProject(ctx context.Context, projectID string) error {
	_, err := p.execute(ctx, "delete_graph_project", map[string]any{"project_id": projectID})
	return err
}

// ProjectSchema returns the full schema definition including field types.
func (p *ProvisioningClient) ProjectSchema(ctx context.Context, projectID string) (map[string]any, error) {
	raw, err := p.executeRead(ctx, "get_graph_schema", map[string]any{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	return decodeObject("get_graph_schema", raw)
}

// ProvisionProject runs the full workflow: create the project with the
// default knowledge-graph schema, deploy it to staging, poll the deployment
// job, and return the final project info. Create and deploy are writes and
// attempted once each.
func (p *ProvisioningClient) ProvisionProject(ctx context.Context, name, description string) (map[string]any, error) {
	logger := logging.WithOperation(p.logger, "provision_project")
	logger.Info("provisioning graph project", slog.String("name", name))

	if description == "" {
		description = fmt.Sprintf("Graforest knowledge graph: %s", name)
	}

	createRaw, err := p.execute(ctx, "create_graph_project", map[string]any{
		"name":        name,
		"schema":      DefaultKnowledgeGraphSchema(),
		"description": description,
	})
	if err != nil {
		return nil, err
	}
	project, err := decodeObject("create_graph_project", createRaw)
	if err != nil {
		return nil, err
	}
	projectID := ProjectIDOf(project)
	if projectID == "" {
		return nil, &BackendError{
			Backend:   "provisioning",
			Operation: "create_graph_project",
			Kind:      ErrBackendRejected,
			Detail:    "response contained no project ID",
		}
	}
	logger.Info("created graph project", slog.String("project_id", projectID))

	deployRaw, err := p.execute(ctx, "deploy_graph_staging", map[string]any{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	deploy, err := decodeObject("deploy_graph_staging", deployRaw)
	if err != nil {
		return nil, err
	}
	jobID, _ := deploy["job_id"].(string)
	if jobID == "" {
		return nil, &BackendError{
			Backend:   "provisioning",
			Operation: "deploy_graph_staging",
			Kind:      ErrBackendRejected,
			Detail:    "response contained no job_id",
		}
	}
	logger.Info("deployment started", slog.String("job_id", jobID))

	if err := p.waitForJob(ctx, jobID); err != nil {
		return nil, err
	}

	infoRaw, err := p.executeRead(ctx, "get_graph_project_info", map[string]any{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	info, err := decodeObject("get_graph_project_info", infoRaw)
	if err != nil {
		return nil, err
	}
	logger.Info("graph project ready", slog.String("project_id", projectID))
	return info, nil
}

// waitForJob polls get_job_status until the job completes, fails, the wait
// budget is exhausted, or the context is cancelled.
func (p *ProvisioningClient) waitForJob(ctx context.Context, jobID string) error {
	deadline := time.Now().Add(p.policy.ProvisionMaxWait)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.policy.ProvisionPollInterval):
		}

		raw, err := p.execute(ctx, "get_job_status", map[string]any{"job_id": jobID})
		if err != nil {
			return err
		}
		status, err := decodeObject("get_job_status", raw)
		if err != nil {
			return err
		}

		jobStatus, _ := status["status"].(string)
		p.logger.Debug("deployment job status",
			slog.String("job_id", jobID),
			slog.String("job_status", jobStatus),
		)

		switch jobStatus {
		case jobStatusCompleted:
			return nil
		case jobStatusFailed, jobStatusError:
			detail, _ := status["error"].(string)
			if detail == "" {
				detail = "unknown deployment error"
			}
			return &BackendError{
				Backend:   "provisioning",
				Operation: "deploy_graph_staging",
				Kind:      ErrBackendRejected,
				Detail:    "deployment failed: " + detail,
			}
		}
	}

	return &BackendError{
		Backend:   "provisioning",
		Operation: "deploy_graph_staging",
		Kind:      ErrBackendTimeout,
		Detail:    fmt.Sprintf("deployment did not complete within %s", p.policy.ProvisionMaxWait),
	}
}

// ProjectIDOf reads the project ID from a response that may use either
// "id" or "project_id".
func ProjectIDOf(project map[string]any) string {
	if id, ok := project["id"].(string); ok && id != "" {
		return id
	}
	if id, ok := project["project_id"].(string); ok && id != "" {
		return id
	}
	return ""
}
