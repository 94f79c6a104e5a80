package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedStem     = errors.New("malformed stem")
	ErrDisallowedCountry = errors.New("disallowed country")
	ErrSubmission        = errors.New("submission rejected")
	ErrTimeout           = errors.New("timeout")
	ErrNoOutput          = errors.New("no output produced")
	ErrRelocation        = errors.New("relocation failed")
	ErrConfiguration     = errors.New("configuration error")
	ErrTransient         = errors.New("transient failure")
)

// Wrap builds an error message that includes pipeline context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, step, operation, message string, err error) error {
	detail := buildDetail(step, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// SkipsAsset reports whether an error disqualifies the asset before any remote
// work started. Such assets are skipped; the batch continues with the next one.
func SkipsAsset(err error) bool {
	return errors.Is(err, ErrMalformedStem) || errors.Is(err, ErrDisallowedCountry)
}

// AbortsChain reports whether an error abandons the remaining chain steps for
// the current asset. Prior step outputs stay on disk so a rerun resumes there.
func AbortsChain(err error) bool {
	return errors.Is(err, ErrSubmission) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrNoOutput) ||
		errors.Is(err, ErrRelocation)
}

func buildDetail(step, operation, message string) string {
	parts := make([]string, 0, 3)
	if step = strings.TrimSpace(step); step != "" {
		parts = append(parts, step)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
