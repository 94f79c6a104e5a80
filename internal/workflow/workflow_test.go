package workflow

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const fluxTemplate = `{
  "3": {
    "class_type": "KSampler",
    "inputs": {"seed": 1098919951782, "steps": 20, "cfg": 1.0, "sampler_name": "euler"}
  },
  "6": {
    "class_type": "CLIPTextEncode",
    "inputs": {"text": "placeholder prompt", "clip": ["11", 0]}
  },
  "9": {
    "class_type": "SaveImage",
    "inputs": {"filename_prefix": "ComfyUI", "images": ["8", 0]}
  },
  "12": {
    "class_type": "LoadImageOutput",
    "inputs": {"image": "old.png [output]"}
  }
}`

const hidreamTemplate = `{
  "3": {
    "class_type": "KSampler",
    "inputs": {"seed": 42, "denoise": 1.0}
  },
  "6": {
    "class_type": "CLIPTextEncode",
    "_meta": {"title": "CLIP Text Encode (Positive Prompt)"},
    "inputs": {"text": "placeholder", "clip": ["4", 0]}
  },
  "7": {
    "class_type": "CLIPTextEncode",
    "_meta": {"title": "CLIP Text Encode (Negative Prompt)"},
    "inputs": {"text": "low quality, blurry, distorted", "clip": ["4", 0]}
  },
  "10": {
    "class_type": "LoadImage",
    "inputs": {"image": "old.png"}
  },
  "11": {
    "class_type": "InstructPixToPixConditioning",
    "inputs": {"positive": ["6", 0], "negative": ["6", 0], "vae": ["4", 2], "pixels": ["10", 0]}
  },
  "13": {
    "class_type": "DualCFGGuider",
    "inputs": {"negative": ["6", 0], "cfg": 3.5}
  },
  "9": {
    "class_type": "SaveImage",
    "inputs": {"filename_prefix": "ComfyUI", "images": ["8", 0]}
  }
}`

func loadTemplate(t *testing.T, body string) Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc
}

func inputValue(t *testing.T, doc Document, id, key string) json.RawMessage {
	t.Helper()
	var node struct {
		Inputs map[string]json.RawMessage `json:"inputs"`
	}
	if err := json.Unmarshal(doc[id], &node); err != nil {
		t.Fatalf("decode node %s: %v", id, err)
	}
	raw, ok := node.Inputs[key]
	if !ok {
		t.Fatalf("node %s has no input %s", id, key)
	}
	return raw
}

func stringInput(t *testing.T, doc Document, id, key string) string {
	t.Helper()
	var s string
	if err := json.Unmarshal(inputValue(t, doc, id, key), &s); err != nil {
		t.Fatalf("input %s.%s is not a string: %v", id, key, err)
	}
	return s
}

func TestApplyOutputStoreTemplate(t *testing.T) {
	doc := loadTemplate(t, fluxTemplate)
	err := doc.Apply(Patch{
		Instruction:  "Change the image to represent bride in Korea.",
		ImageName:    "flux_korea_people_bride.png",
		OutputPrefix: "outputs/i2i/flux_korea_people_bride_1",
	}, Options{ImageNodeClass: "LoadImageOutput"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if got := stringInput(t, doc, "6", "text"); got != "Change the image to represent bride in Korea." {
		t.Errorf("positive text = %q", got)
	}
	if got := stringInput(t, doc, "12", "image"); got != "flux_korea_people_bride.png [output]" {
		t.Errorf("image input = %q", got)
	}
	if got := stringInput(t, doc, "9", "filename_prefix"); got != "outputs/i2i/flux_korea_people_bride_1" {
		t.Errorf("filename_prefix = %q", got)
	}
}

func TestApplyPreservesUntouchedFields(t *testing.T) {
	doc := loadTemplate(t, fluxTemplate)
	before := append(json.RawMessage(nil), doc["3"]...)
	beforeClip := append(json.RawMessage(nil), inputValue(t, doc, "6", "clip")...)

	if err := doc.Apply(Patch{Instruction: "x", ImageName: "a.png", OutputPrefix: "p"}, Options{ImageNodeClass: "LoadImageOutput"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if !bytes.Equal(doc["3"], before) {
		t.Errorf("sampler node re-encoded: %s != %s", doc["3"], before)
	}
	// Re-encoding the patched node compacts whitespace but must not change
	// the content of inputs it leaves alone.
	var gotClip, wantClip bytes.Buffer
	if err := json.Compact(&gotClip, inputValue(t, doc, "6", "clip")); err != nil {
		t.Fatal(err)
	}
	if err := json.Compact(&wantClip, beforeClip); err != nil {
		t.Fatal(err)
	}
	if gotClip.String() != wantClip.String() {
		t.Errorf("untouched input changed: %s != %s", gotClip.String(), wantClip.String())
	}
}

func TestApplyTitledTemplateWithRewire(t *testing.T) {
	doc := loadTemplate(t, hidreamTemplate)
	err := doc.Apply(Patch{
		Instruction:  "Change the image to represent landmark in India.",
		ImageName:    "hidream_india_architecture_landmark_general.png",
		OutputPrefix: "outputs/i2i/hidream_india_architecture_landmark_general_2",
	}, Options{
		ImageNodeClass:     "LoadImage",
		NegativeSentinel:   "low quality, blurry, distorted",
		RewireConditioning: true,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if got := stringInput(t, doc, "6", "text"); got != "Change the image to represent landmark in India." {
		t.Errorf("positive text = %q", got)
	}
	if got := stringInput(t, doc, "7", "text"); got != "low quality, blurry, distorted" {
		t.Errorf("negative text overwritten: %q", got)
	}
	if got := stringInput(t, doc, "10", "image"); got != "hidream_india_architecture_landmark_general.png" {
		t.Errorf("image input = %q", got)
	}

	var link []any
	if err := json.Unmarshal(inputValue(t, doc, "11", "negative"), &link); err != nil || len(link) != 2 || link[0] != "7" {
		t.Errorf("conditioning negative link = %v (err %v)", link, err)
	}
	if err := json.Unmarshal(inputValue(t, doc, "13", "negative"), &link); err != nil || len(link) != 2 || link[0] != "7" {
		t.Errorf("guider negative link = %v (err %v)", link, err)
	}
}

func TestApplySentinelFallbackSelection(t *testing.T) {
	// No title annotations: the sentinel text marks the negative encoder.
	untitled := `{
  "6": {"class_type": "CLIPTextEncode", "inputs": {"text": "old prompt"}},
  "7": {"class_type": "CLIPTextEncode", "inputs": {"text": "low quality, blurry, distorted"}},
  "9": {"class_type": "SaveImage", "inputs": {"filename_prefix": "ComfyUI"}},
  "10": {"class_type": "LoadImage", "inputs": {"image": "old.png"}}
}`
	doc := loadTemplate(t, untitled)
	err := doc.Apply(Patch{Instruction: "new prompt", ImageName: "a.png", OutputPrefix: "p"}, Options{
		ImageNodeClass:   "LoadImage",
		NegativeSentinel: "low quality, blurry, distorted",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := stringInput(t, doc, "6", "text"); got != "new prompt" {
		t.Errorf("positive text = %q", got)
	}
	if got := stringInput(t, doc, "7", "text"); got != "low quality, blurry, distorted" {
		t.Errorf("negative text overwritten: %q", got)
	}
}

func TestApplyNoPositiveNode(t *testing.T) {
	onlyNegative := `{
  "7": {"class_type": "CLIPTextEncode", "inputs": {"text": "low quality, blurry, distorted"}}
}`
	doc := loadTemplate(t, onlyNegative)
	err := doc.Apply(Patch{Instruction: "x"}, Options{NegativeSentinel: "low quality, blurry, distorted"})
	if err == nil {
		t.Fatal("expected error for template without positive node")
	}
}

func TestLoadRejectsMalformedTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadIsFreshPerCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.json")
	if err := os.WriteFile(path, []byte(fluxTemplate), 0o644); err != nil {
		t.Fatal(err)
	}
	first, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Apply(Patch{Instruction: "x", ImageName: "a.png", OutputPrefix: "p"}, Options{ImageNodeClass: "LoadImageOutput"}); err != nil {
		t.Fatal(err)
	}
	second, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := stringInput(t, second, "6", "text"); got != "placeholder prompt" {
		t.Errorf("second load saw patched text %q", got)
	}
}
