// Package destinations contains the implementations of the destination
// ports: the Drive landing zone and Notion page sinks that receive file
// bytes during the transfer stage, and the NotebookLM and Notion
// knowledge sinks that register delivered files during the upload stage.
package destinations
