package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/processor"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// NoCaptionsMessage is the soft reply when no strategy found captions.
const NoCaptionsMessage = "No captions found for this video"

type videoRequest struct {
	VideoURL string `json:"video_url"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

type transcriptResponse struct {
	VideoID    string `json:"video_id"`
	Source     string `json:"source"`
	Transcript string `json:"transcript"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *handler) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "pong"})
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	sum, err := h.proc.Summarize(r.Context(), req.VideoURL)
	if err != nil {
		h.writeError(w, r, req.VideoURL, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: sum.Text})
}

func (h *handler) transcript(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	tr, err := h.proc.Transcript(r.Context(), req.VideoURL)
	if err != nil {
		h.writeError(w, r, req.VideoURL, err)
		return
	}
	writeJSON(w, http.StatusOK, transcriptResponse{VideoID: tr.VideoID, Source: tr.Source, Transcript: tr.Text})
}

// writeError maps a processor error to a response. Missing captions are a
// soft 200, bad input is 400, everything else is 500.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, videoURL string, err error) {
	switch {
	case errors.Is(err, transcript.ErrUnavailable):
		writeJSON(w, http.StatusOK, messageResponse{Message: NoCaptionsMessage})
	case errors.Is(err, transcript.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid YouTube URL"})
	case errors.Is(err, processor.ErrUpstream):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Failed to generate summary"})
	default:
		if r.Context().Err() != nil {
			h.logger.Warn(r.Context(), "Request for %s abandoned: %v", videoURL, err)
			return
		}
		h.logger.Error(r.Context(), "Request for %s failed: %v", videoURL, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal error"})
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (videoRequest, error) {
	var req videoRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid JSON body: %w", err)
	}
	req.VideoURL = strings.TrimSpace(req.VideoURL)
	if req.VideoURL == "" {
		return req, errors.New("video_url is required")
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
