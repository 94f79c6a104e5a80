package workflow

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is a node graph keyed by node id. Nodes are kept as raw JSON so
// that fields the patcher never touches survive a round trip byte for byte;
// only nodes that receive an edit are re-encoded.
type Document map[string]json.RawMessage

// Load reads a template fresh from disk. Callers load per job so no run can
// observe another run's patches.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow template: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse workflow template %s: %w", path, err)
	}
	return doc, nil
}

// nodeHeader is the slice of a node descriptor the patcher needs to route
// edits. Everything else stays raw.
type nodeHeader struct {
	ClassType string `json:"class_type"`
	Meta      struct {
		Title string `json:"title"`
	} `json:"_meta"`
}

func (d Document) header(id string) (nodeHeader, error) {
	var h nodeHeader
	if err := json.Unmarshal(d[id], &h); err != nil {
		return h, fmt.Errorf("decode node %s: %w", id, err)
	}
	return h, nil
}

// setInput re-encodes a single node with one input replaced. Untouched input
// values keep their original bytes.
func (d Document) setInput(id, key string, value any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(d[id], &fields); err != nil {
		return fmt.Errorf("decode node %s: %w", id, err)
	}
	inputs := map[string]json.RawMessage{}
	if raw, ok := fields["inputs"]; ok {
		if err := json.Unmarshal(raw, &inputs); err != nil {
			return fmt.Errorf("decode inputs of node %s: %w", id, err)
		}
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode input %s of node %s: %w", key, id, err)
	}
	inputs[key] = encoded
	rawInputs, err := json.Marshal(inputs)
	if err != nil {
		return fmt.Errorf("encode inputs of node %s: %w", id, err)
	}
	fields["inputs"] = rawInputs
	rawNode, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode node %s: %w", id, err)
	}
	d[id] = rawNode
	return nil
}

// textInput returns the literal text input of a node, reporting ok only when
// the input is a JSON string rather than a node reference.
func (d Document) textInput(id string) (string, bool) {
	var fields struct {
		Inputs map[string]json.RawMessage `json:"inputs"`
	}
	if err := json.Unmarshal(d[id], &fields); err != nil {
		return "", false
	}
	raw, ok := fields.Inputs["text"]
	if !ok {
		return "", false
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", false
	}
	return text, true
}
