// Package services defines the shared error taxonomy and context annotations
// used across the pipeline stages.
package services
