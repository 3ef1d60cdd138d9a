// SPDX-License-Identifier: MIT

package downloader

import "errors"

// Sentinel errors forming the service's failure taxonomy. Handlers map
// ErrInvalidRequest to a client error and everything else to a server error;
// no external-tool error type crosses this boundary.
var (
	// ErrInvalidRequest covers input rejected before any external call.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrExtraction is the uniform failure for metadata fetches.
	ErrExtraction = errors.New("failed to extract video info")

	// ErrDownload is the uniform failure for the download path, including a
	// tool that reported success but produced no locatable output file.
	ErrDownload = errors.New("download failed")
)
