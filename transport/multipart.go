package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
)

// encodeMultipart builds the multipart form for req following the GraphQL
// multipart request convention: an "operations" field carrying the JSON
// payload with uploads nulled out, a "map" field pointing numbered file
// fields at their variable paths, then one part per file.
func encodeMultipart(
	req *Request,
	variables map[string]any,
	uploads []uploadRef,
) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	ops, err := json.Marshal(operationsPayload{
		Query:         req.Query,
		Variables:     variables,
		OperationName: req.OperationName,
	})
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("operations", string(ops)); err != nil {
		return nil, "", err
	}

	fileMap := make(map[string][]string, len(uploads))
	for i, ref := range uploads {
		fileMap[strconv.Itoa(i)] = []string{ref.path}
	}
	mapJSON, err := json.Marshal(fileMap)
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("map", string(mapJSON)); err != nil {
		return nil, "", err
	}

	for i, ref := range uploads {
		if ref.upload.R == nil {
			return nil, "", fmt.Errorf("upload %q has no reader", ref.upload.Name)
		}
		part, err := createFilePart(w, strconv.Itoa(i), ref.upload)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, ref.upload.R); err != nil {
			return nil, "", fmt.Errorf("copy upload %q: %w", ref.upload.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func createFilePart(
	w *multipart.Writer,
	field string,
	u *Upload,
) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set(
		"Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, u.Name),
	)
	contentType := u.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return w.CreatePart(h)
}
