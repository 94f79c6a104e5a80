// Package workflow loads node-graph templates and patches the prompt, image
// and output slots for a single submission while leaving every other field
// byte for byte intact.
package workflow
