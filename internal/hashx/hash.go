// Package hashx computes the content digest used to validate chunk
// integrity on both upload and download.
package hashx

import (
	"crypto/md5"
	"encoding/hex"
)

// Sum returns the hex-encoded digest of data.
func Sum(data []byte) string {
	h := md5.Sum(data)
	return hex.EncodeToString(h[:])
}
