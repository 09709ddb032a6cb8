// Package connectors contains the source-drive implementations of the
// SourceEnumerator port. Each provider lives in its own subpackage and
// handles its own authentication, pagination and rate limiting; the
// factory package picks the right one from the detected drive type.
package connectors
