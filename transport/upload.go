package transport

import (
	"io"
	"sort"
	"strconv"
)

// Upload marks a variable value as file content. The HTTP link sends requests
// whose variables carry uploads as multipart forms instead of plain JSON.
type Upload struct {
	// Name is the filename reported for the part.
	Name string
	// ContentType overrides the part's Content-Type when non-empty.
	ContentType string
	// R supplies the file content. It is consumed while encoding the request.
	R io.Reader
}

// NewUpload returns an Upload reading from r, reported with the given
// filename.
func NewUpload(name string, r io.Reader) *Upload {
	return &Upload{Name: name, R: r}
}

// uploadRef is one file discovered in the variables tree.
type uploadRef struct {
	// path is the dotted location under "variables", e.g. "variables.file"
	// or "variables.files.0".
	path   string
	upload *Upload
}

// extractUploads walks variables and returns a copy with every Upload value
// replaced by null, together with the discovered uploads. Maps and slices are
// walked; everything else passes through untouched. Map keys are visited in
// sorted order so the part numbering is deterministic.
func extractUploads(variables map[string]any) (map[string]any, []uploadRef) {
	if len(variables) == 0 {
		return variables, nil
	}
	var refs []uploadRef
	scrubbed := scrubValue("variables", variables, &refs).(map[string]any)
	return scrubbed, refs
}

func scrubValue(path string, v any, refs *[]uploadRef) any {
	switch t := v.(type) {
	case *Upload:
		if t == nil {
			return nil
		}
		*refs = append(*refs, uploadRef{path: path, upload: t})
		return nil
	case Upload:
		u := t
		*refs = append(*refs, uploadRef{path: path, upload: &u})
		return nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(t))
		for _, k := range keys {
			out[k] = scrubValue(path+"."+k, t[k], refs)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = scrubValue(path+"."+strconv.Itoa(i), e, refs)
		}
		return out
	default:
		return v
	}
}
