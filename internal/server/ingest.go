package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/joseph-ayodele/gazette-tracker/constants"
	"github.com/joseph-ayodele/gazette-tracker/internal/textsource"
)

// handleBulkUpload accepts one or more gazette PDFs under the "pdfs" field,
// extracts their case records, and persists them with assigned sequence
// numbers. Files that yield nothing come back as failure notes, not errors.
func (s *Server) handleBulkUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "invalid multipart request",
		})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["pdfs"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "No PDF files uploaded",
		})
		return
	}

	docs := make([]textsource.Document, 0, len(headers))
	for _, hdr := range headers {
		doc, err := readUpload(hdr)
		if err != nil {
			s.writeError(w, err)
			return
		}
		docs = append(docs, doc)
	}

	result, err := s.ingest.BulkIngest(r.Context(), docs)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"message":  fmt.Sprintf("%d bulk records extracted & saved", result.Count),
		"batchId":  result.BatchID,
		"count":    result.Count,
		"records":  result.Records,
		"failures": result.Failures,
	})
}

// readUpload materializes one multipart file into a Document.
func readUpload(hdr *multipart.FileHeader) (textsource.Document, error) {
	f, err := hdr.Open()
	if err != nil {
		return textsource.Document{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return textsource.Document{}, err
	}

	ct := hdr.Header.Get("Content-Type")
	if ct == "" {
		ct = constants.ContentTypePDF
	}
	return textsource.Document{Name: hdr.Filename, ContentType: ct, Data: data}, nil
}
