package domain

import "time"

const (
	// DefaultAuthURL is the session exchange endpoint for Cloud Files.
	DefaultAuthURL = "https://auth.api.rackspacecloud.com/v1.0"

	// DefaultHeadTimeout bounds each remote existence check.
	DefaultHeadTimeout = 2 * time.Second

	// DefaultSyncEnvironment selects the credential section used for sync.
	DefaultSyncEnvironment = "production"
)

// SyncTarget holds the resolved remote store settings for one sync.
type SyncTarget struct {
	Username  string
	APIKey    string
	Container string
	// Endpoint is the public CDN base URL used for existence checks.
	Endpoint string
	AuthURL  string
	// KeyPrefix is prepended to every object key.
	KeyPrefix   string
	HeadTimeout time.Duration
	Concurrency int
	// VerifyETag requires the served ETag to match the local MD5 before skipping.
	VerifyETag bool
}

// WithDefaults returns a copy of t with zero fields replaced by defaults.
func (t SyncTarget) WithDefaults() SyncTarget {
	if t.AuthURL == "" {
		t.AuthURL = DefaultAuthURL
	}
	if t.HeadTimeout <= 0 {
		t.HeadTimeout = DefaultHeadTimeout
	}
	if t.Concurrency < 1 {
		t.Concurrency = 1
	}
	return t
}

// Per-object sync results, as reported to metrics.
const (
	UploadResultUploaded = "uploaded"
	UploadResultSkipped  = "skipped"
	UploadResultFailed   = "failed"
)
