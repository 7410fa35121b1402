package common

// MaxChunkSize is the hard cap on a single uploaded chunk. Larger payloads
// are rejected before buffering completes.
const MaxChunkSize = 4 << 20

// DefaultMaxDownloads applies when finalization does not specify a quota.
const DefaultMaxDownloads = 10000

// DefaultExpirySpec applies when finalization does not specify an expiry.
const DefaultExpirySpec = "7d"
