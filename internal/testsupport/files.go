package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

const fluxTemplateJSON = `{
  "3": {"class_type": "KSampler", "inputs": {"seed": 7, "steps": 20}},
  "6": {"class_type": "CLIPTextEncode", "inputs": {"text": "placeholder", "clip": ["11", 0]}},
  "9": {"class_type": "SaveImage", "inputs": {"filename_prefix": "ComfyUI"}},
  "12": {"class_type": "LoadImageOutput", "inputs": {"image": "old.png [output]"}}
}`

const hidreamTemplateJSON = `{
  "3": {"class_type": "KSampler", "inputs": {"seed": 7}},
  "6": {"class_type": "CLIPTextEncode", "_meta": {"title": "CLIP Text Encode (Positive Prompt)"}, "inputs": {"text": "placeholder"}},
  "7": {"class_type": "CLIPTextEncode", "_meta": {"title": "CLIP Text Encode (Negative Prompt)"}, "inputs": {"text": "low quality, blurry, distorted"}},
  "9": {"class_type": "SaveImage", "inputs": {"filename_prefix": "ComfyUI"}},
  "10": {"class_type": "LoadImage", "inputs": {"image": "old.png"}},
  "11": {"class_type": "InstructPixToPixConditioning", "inputs": {"positive": ["6", 0], "negative": ["6", 0]}},
  "13": {"class_type": "DualCFGGuider", "inputs": {"negative": ["6", 0]}}
}`

// WriteFluxTemplate writes an output-store edit template and returns its path.
func WriteFluxTemplate(t testing.TB, path string) string {
	t.Helper()
	return writeFile(t, path, fluxTemplateJSON)
}

// WriteHidreamTemplate writes an input-store edit template with title
// annotations and returns its path.
func WriteHidreamTemplate(t testing.TB, path string) string {
	t.Helper()
	return writeFile(t, path, hidreamTemplateJSON)
}

// WriteImage creates a placeholder image file.
func WriteImage(t testing.TB, path string) string {
	t.Helper()
	return writeFile(t, path, "not-a-real-png")
}

func writeFile(t testing.TB, path, body string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
