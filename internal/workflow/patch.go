package workflow

import (
	"errors"
	"sort"
	"strings"
)

const (
	classTextEncode   = "CLIPTextEncode"
	classSaveImage    = "SaveImage"
	classLoadImage    = "LoadImage"
	classLoadOutput   = "LoadImageOutput"
	classPixCondition = "InstructPixToPixConditioning"
	classDualCFG      = "DualCFGGuider"
)

// ErrNoPositiveNode reports a template without a patchable prompt slot.
var ErrNoPositiveNode = errors.New("workflow template has no positive text node")

// Patch carries the per-job values written into a template.
type Patch struct {
	Instruction  string
	ImageName    string
	OutputPrefix string
}

// Options describe how a particular template family expects to be patched.
type Options struct {
	// ImageNodeClass is the node type that receives the staged image name,
	// LoadImage for input-store templates or LoadImageOutput for templates
	// that read the service's own output store.
	ImageNodeClass string
	// NegativeSentinel is the untouched negative-prompt text used to tell
	// positive from negative encoders in templates without title
	// annotations. Empty means any node with literal text is positive.
	NegativeSentinel string
	// RewireConditioning forces the conditioning and guider negative links
	// to the canonical node ids. Some exported templates point both slots
	// at the positive encoder.
	RewireConditioning bool
}

// Apply patches the document in place for one submission. Prompt selection is
// two pass: nodes whose title annotation contains "positive" win outright;
// only when no node is titled does the sentinel comparison decide.
func (d Document) Apply(p Patch, opts Options) error {
	imageClass := opts.ImageNodeClass
	if imageClass == "" {
		imageClass = classLoadImage
	}
	imageName := p.ImageName
	if imageClass == classLoadOutput {
		imageName += " [output]"
	}

	positives, err := d.positiveNodes(opts.NegativeSentinel)
	if err != nil {
		return err
	}
	if len(positives) == 0 {
		return ErrNoPositiveNode
	}
	for _, id := range positives {
		if err := d.setInput(id, "text", p.Instruction); err != nil {
			return err
		}
	}

	for _, id := range d.ids() {
		h, err := d.header(id)
		if err != nil {
			return err
		}
		switch h.ClassType {
		case imageClass:
			if err := d.setInput(id, "image", imageName); err != nil {
				return err
			}
		case classSaveImage:
			if err := d.setInput(id, "filename_prefix", p.OutputPrefix); err != nil {
				return err
			}
		case classPixCondition:
			if opts.RewireConditioning {
				if err := d.setInput(id, "positive", []any{"6", 0}); err != nil {
					return err
				}
				if err := d.setInput(id, "negative", []any{"7", 0}); err != nil {
					return err
				}
			}
		case classDualCFG:
			if opts.RewireConditioning {
				if err := d.setInput(id, "negative", []any{"7", 0}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// positiveNodes returns the ids of text encoders that should receive the
// instruction, in stable order.
func (d Document) positiveNodes(sentinel string) ([]string, error) {
	var titled, untitled []string
	for _, id := range d.ids() {
		h, err := d.header(id)
		if err != nil {
			return nil, err
		}
		if h.ClassType != classTextEncode {
			continue
		}
		if strings.Contains(strings.ToLower(h.Meta.Title), "positive") {
			titled = append(titled, id)
			continue
		}
		text, ok := d.textInput(id)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(text)
		if trimmed != "" && trimmed != strings.TrimSpace(sentinel) {
			untitled = append(untitled, id)
		}
	}
	if len(titled) > 0 {
		return titled, nil
	}
	return untitled, nil
}

func (d Document) ids() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
