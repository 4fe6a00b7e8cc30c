package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Djoe-Denne/vocal-agent/internal/app"
	"github.com/Djoe-Denne/vocal-agent/internal/domainerr"
	"github.com/Djoe-Denne/vocal-agent/internal/logging"
)

type transcribeRequestBody struct {
	Samples      []float32 `json:"samples"`
	SampleRateHz *uint32   `json:"sample_rate_hz,omitempty"`
	LanguageHint *string   `json:"language_hint,omitempty"`
	SessionID    *string   `json:"session_id,omitempty"`
}

type transcribeResponseBody struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type errorResponseBody struct {
	Error string `json:"error"`
}

// transcribeHandler adapts the one-shot TranscribeUseCase to a JSON HTTP
// endpoint: decode body, run the use-case, map its DomainError kind to an
// HTTP status, encode the response.
func transcribeHandler(useCase *app.TranscribeUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var body transcribeRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "malformed request body")
			return
		}

		resp, err := useCase.Transcribe(r.Context(), app.TranscribeRequest{
			Samples:      body.Samples,
			SampleRateHz: body.SampleRateHz,
			LanguageHint: body.LanguageHint,
			SessionID:    body.SessionID,
		})
		if err != nil {
			writeUseCaseError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, transcribeResponseBody{SessionID: resp.SessionID, Text: resp.Text})
	}
}

func writeUseCaseError(w http.ResponseWriter, err error) {
	var domainErr *domainerr.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusInternalServerError
		switch domainErr.Kind {
		case domainerr.InvalidInput, domainerr.Validation:
			status = http.StatusBadRequest
		case domainerr.ExternalService:
			status = http.StatusBadGateway
		}
		logging.Warn("transcribe request failed", "error", err)
		writeJSONError(w, status, err.Error())
		return
	}
	logging.Error("transcribe request failed with unmapped error", "error", err)
	writeJSONError(w, http.StatusInternalServerError, "internal error")
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponseBody{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
