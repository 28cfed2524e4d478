package backend

import "time"

// Default policy values. Flags on the serve command can override the
// retry and timeout knobs.
const (
	DefaultRetryAttempts              = 3
	DefaultRetryBackoff               = 500 * time.Millisecond
	DefaultGraphRequestTimeout        = 60 * time.Second
	DefaultProvisioningRequestTimeout = 120 * time.Second
	DefaultFetchTimeout               = 30 * time.Second
	DefaultProvisionPollInterval      = 3 * time.Second
	DefaultProvisionMaxWait           = 300 * time.Second

	// MaxBatchSize caps bulk-write arrays and chunk sizes per backend POST.
	MaxBatchSize = 500

	// MaxPageSize caps the limit argument of list operations.
	MaxPageSize = 500

	// DefaultPageSize is the list limit when the caller omits one.
	DefaultPageSize = 50

	// MaxTraversalDepth is the hard cap on traversal depth.
	MaxTraversalDepth = 5

	// DefaultTraversalDepth is used when the caller omits max_depth.
	DefaultTraversalDepth = 3

	// MinIngestChars is the minimum trimmed length for ingested text.
	MinIngestChars = 50

	// MaxContentChars caps ingested text and fetched URL content.
	MaxContentChars = 500_000
)

// Policy holds the retry and timeout knobs applied to backend calls.
// Zero values are replaced by the defaults via normalize.
type Policy struct {
	RetryAttempts              int
	RetryBackoff               time.Duration
	GraphRequestTimeout        time.Duration
	ProvisioningRequestTimeout time.Duration
	FetchTimeout               time.Duration
	ProvisionPollInterval      time.Duration
	ProvisionMaxWait           time.Duration
}

// DefaultPolicy returns the documented default policy.
func DefaultPolicy() Policy {
	return Policy{
		RetryAttempts:              DefaultRetryAttempts,
		RetryBackoff:               DefaultRetryBackoff,
		GraphRequestTimeout:        DefaultGraphRequestTimeout,
		ProvisioningRequestTimeout: DefaultProvisioningRequestTimeout,
		FetchTimeout:               DefaultFetchTimeout,
		ProvisionPollInterval:      DefaultProvisionPollInterval,
		ProvisionMaxWait:           DefaultProvisionMaxWait,
	}
}

// normalize fills zero fields with defaults so partially configured
// policies behave sensibly.
func (p Policy) normalize() Policy {
	d := DefaultPolicy()
	if p.RetryAttempts <= 0 {
		p.RetryAttempts = d.RetryAttempts
	}
	if p.RetryBackoff <= 0 {
		p.RetryBackoff = d.RetryBackoff
	}
	if p.GraphRequestTimeout <= 0 {
		p.GraphRequestTimeout = d.GraphRequestTimeout
	}
	if p.ProvisioningRequestTimeout <= 0 {
		p.ProvisioningRequestTimeout = d.ProvisioningRequestTimeout
	}
	if p.FetchTimeout <= 0 {
		p.FetchTimeout = d.FetchTimeout
	}
	if p.ProvisionPollInterval <= 0 {
		p.ProvisionPollInterval = d.ProvisionPollInterval
	}
	if p.ProvisionMaxWait <= 0 {
		p.ProvisionMaxWait = d.ProvisionMaxWait
	}
	return p
}
