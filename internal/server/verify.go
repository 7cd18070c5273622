package server

import (
	"bytes"
	"net/http"
)

// handleVerify takes exactly one spreadsheet ("excel") and one gazette PDF
// ("pdf") and responds with the reconciliation partition plus summary counts.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "invalid multipart request",
		})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	excelHeaders := r.MultipartForm.File["excel"]
	pdfHeaders := r.MultipartForm.File["pdf"]
	if len(excelHeaders) == 0 || len(pdfHeaders) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "Both Excel and PDF files are required",
		})
		return
	}

	excelDoc, err := readUpload(excelHeaders[0])
	if err != nil {
		s.writeError(w, err)
		return
	}
	pdfDoc, err := readUpload(pdfHeaders[0])
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.verify.Verify(r.Context(), bytes.NewReader(excelDoc.Data), pdfDoc)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"datePublished": result.Partition.DatePublished,
		"stats":         result.Stats,
		"matched":       result.Partition.Matched,
		"onlyExcel":     result.Partition.OnlySpreadsheet,
		"onlyPdf":       result.Partition.OnlyDocument,
	})
}
