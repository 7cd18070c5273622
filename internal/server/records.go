package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/joseph-ayodele/gazette-tracker/constants"
	"github.com/joseph-ayodele/gazette-tracker/internal/common"
	"github.com/joseph-ayodele/gazette-tracker/internal/entity"
	"github.com/joseph-ayodele/gazette-tracker/internal/repository"
)

type createRecordRequest struct {
	CourtStation    string     `json:"courtStation"`
	CauseNo         string     `json:"causeNo"`
	NameOfDeceased  string     `json:"nameOfDeceased"`
	DateReceived    *time.Time `json:"dateReceived"`
	StatusAtGP      string     `json:"statusAtGP"`
	RejectionReason string     `json:"rejectionReason"`
	DatePublished   *time.Time `json:"datePublished"`
	VolumeNo        string     `json:"volumeNo"`
}

type updateRecordRequest struct {
	CourtStation    *string    `json:"courtStation"`
	CauseNo         *string    `json:"causeNo"`
	NameOfDeceased  *string    `json:"nameOfDeceased"`
	StatusAtGP      *string    `json:"statusAtGP"`
	RejectionReason *string    `json:"rejectionReason"`
	DatePublished   *time.Time `json:"datePublished"`
	VolumeNo        *string    `json:"volumeNo"`
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "invalid JSON body",
		})
		return
	}

	rec := entity.Record{
		CourtStation:    req.CourtStation,
		CauseNo:         req.CauseNo,
		NameOfDeceased:  req.NameOfDeceased,
		StatusAtGP:      constants.RecordStatus(req.StatusAtGP),
		RejectionReason: req.RejectionReason,
		DatePublished:   req.DatePublished,
		VolumeNo:        req.VolumeNo,
	}
	if req.DateReceived != nil {
		rec.DateReceived = *req.DateReceived
	}

	created, err := s.records.Create(r.Context(), rec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": created})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 20
	}

	f := repository.Filter{
		Search: q.Get("search"),
		Court:  q.Get("court"),
		Status: constants.RecordStatus(q.Get("status")),
		Page:   page,
		Limit:  limit,
	}
	records, total, err := s.records.List(r.Context(), f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []entity.Record{}
	}
	if page <= 0 {
		page = 1
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records":      records,
		"currentPage":  page,
		"totalPages":   int(math.Ceil(float64(total) / float64(limit))),
		"totalRecords": total,
	})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	seqNo, err := parseSeqNo(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.records.GetBySequenceNo(r.Context(), seqNo)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	seqNo, err := parseSeqNo(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req updateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "invalid JSON body",
		})
		return
	}

	fields := repository.UpdateFields{
		CourtStation:    req.CourtStation,
		CauseNo:         req.CauseNo,
		NameOfDeceased:  req.NameOfDeceased,
		RejectionReason: req.RejectionReason,
		DatePublished:   req.DatePublished,
		VolumeNo:        req.VolumeNo,
	}
	if req.StatusAtGP != nil {
		st := constants.RecordStatus(*req.StatusAtGP)
		fields.StatusAtGP = &st
	}

	updated, err := s.records.Update(r.Context(), seqNo, fields)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": updated})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	seqNo, err := parseSeqNo(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.records.Delete(r.Context(), seqNo); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true, "message": "Record deleted successfully",
	})
}

func parseSeqNo(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "seqNo")
	seqNo, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seqNo <= 0 {
		return 0, common.NewAppError("BAD_SEQ_NO", "record number must be a positive integer", common.ErrInvalidInput)
	}
	return seqNo, nil
}
