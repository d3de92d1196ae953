package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Luismorlan/dept_ledger/model"
)

type errorResponse struct {
	Status  int        `json:"status"`
	Kind    model.Kind `json:"kind,omitempty"`
	Message string     `json:"message"`
	Unmet   []string   `json:"unmet,omitempty"`
}

// StatusOf maps a ledger error to its HTTP status code.
func StatusOf(err error) int {
	switch model.KindOf(err) {
	case model.KindInvalidInput, model.KindInvalidAmount, model.KindSelfTransfer, model.KindSelfVote:
		return http.StatusBadRequest
	case model.KindInvalidCredential:
		return http.StatusUnauthorized
	case model.KindNotValidator:
		return http.StatusForbidden
	case model.KindUnknownAddress, model.KindUnknownCandidate:
		return http.StatusNotFound
	case model.KindDuplicateWalletName, model.KindAlreadyVoted:
		return http.StatusConflict
	case model.KindInsufficientFunds, model.KindIneligibleCandidate:
		return http.StatusUnprocessableEntity
	case model.KindChainIntegrityViolation:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := StatusOf(err)
	resp := errorResponse{Status: code, Kind: model.KindOf(err), Message: err.Error()}
	var e *model.Error
	if errors.As(err, &e) {
		resp.Unmet = e.Unmet
	}
	if code == http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
		resp.Message = "internal error: " + err.Error()
	}
	writeJSON(w, code, resp)
}
