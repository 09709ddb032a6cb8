// Package google provides shared plumbing for the Google Drive
// connector and the Drive landing-zone sink: service construction,
// error mapping and rate limiting.
package google
