package comfy

// ImageRef locates one produced image relative to the service's output store.
type ImageRef struct {
	Filename  string `json:"filename"`
	Subfolder string `json:"subfolder"`
}

// NodeOutput is the per-node output bundle inside a history record.
type NodeOutput struct {
	Images []ImageRef `json:"images"`
}

// HistoryEntry is one finished job keyed by its handle.
type HistoryEntry struct {
	Outputs map[string]NodeOutput `json:"outputs"`
}

// History is the poll response body. Empty means the job is still running.
type History map[string]HistoryEntry

// Images flattens every image reference across all entries and nodes. Refs
// without a filename are dropped.
func (h History) Images() []ImageRef {
	var refs []ImageRef
	for _, entry := range h {
		for _, out := range entry.Outputs {
			for _, img := range out.Images {
				if img.Filename == "" {
					continue
				}
				refs = append(refs, img)
			}
		}
	}
	return refs
}
