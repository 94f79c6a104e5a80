// Package comfy is a minimal REST client for ComfyUI-compatible services:
// submit a workflow, poll its history, read the produced image references.
package comfy
