// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Media fields
	FieldQuality    = "quality"
	FieldFormat     = "format"
	FieldResolution = "resolution"
	FieldBitrate    = "bitrate"

	// Path / URL fields
	FieldPath = "path"
	FieldURL  = "url"
)
