// Package prompt synthesizes edit instructions from decoded filename
// attributes. Instruction text is a pure function of its inputs so reruns of
// the same asset always submit the same prompt.
package prompt
