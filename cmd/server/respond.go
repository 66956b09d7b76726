package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Simplici0/cabinet-cpq/internal/rules"
	"github.com/Simplici0/cabinet-cpq/internal/workflow"
)

type errorBody struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	RuleID  string   `json:"ruleId,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

// writeError maps engine errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, body)
}

func classify(err error) (int, errorBody) {
	body := errorBody{Error: err.Error()}

	var exclusion *rules.ExclusionError
	var requirement *rules.RequirementError
	switch {
	case errors.As(err, &exclusion):
		body.Code, body.RuleID = "excluded", exclusion.RuleID
		return http.StatusConflict, body
	case errors.As(err, &requirement):
		body.Code, body.RuleID, body.Missing = "requirement_unmet", requirement.RuleID, requirement.Missing
		return http.StatusConflict, body
	case errors.Is(err, workflow.ErrUnknownProduct),
		errors.Is(err, workflow.ErrUnknownProcessing),
		errors.Is(err, workflow.ErrUnknownRoom),
		errors.Is(err, workflow.ErrUnknownItem),
		errors.Is(err, workflow.ErrUnknownModel),
		errors.Is(err, workflow.ErrUnknownCustomer),
		errors.Is(err, errQuoteNotFound):
		body.Code = "not_found"
		return http.StatusNotFound, body
	case errors.Is(err, workflow.ErrNoCustomer),
		errors.Is(err, workflow.ErrNoQuote),
		errors.Is(err, workflow.ErrInheritedLocked),
		errors.Is(err, workflow.ErrPendingOptions),
		errors.Is(err, workflow.ErrModelMismatch),
		errors.Is(err, rules.ErrAlreadyApplied):
		body.Code = "conflict"
		return http.StatusConflict, body
	case errors.Is(err, rules.ErrNotApplicable),
		errors.Is(err, workflow.ErrNegativeDiscount):
		body.Code = "unprocessable"
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, errBadRequest):
		body.Code = "bad_request"
		return http.StatusBadRequest, body
	}
	body.Error = "internal error"
	return http.StatusInternalServerError, body
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}
