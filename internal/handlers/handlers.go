package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/CLDWare/methods-lab/internal/phase"
	"github.com/CLDWare/methods-lab/internal/store"
	"github.com/CLDWare/methods-lab/pkg/logger"
	"github.com/MonkyMars/gecho"
)

// sendStoreError maps store and phase errors onto api responses
func sendStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		gecho.NotFound(w).WithMessage(err.Error()).Send()
	case errors.Is(err, store.ErrDuplicateSubmission), errors.Is(err, store.ErrSessionFinished):
		gecho.NewErr(w).WithStatus(http.StatusConflict).WithMessage(err.Error()).Send()
	case errors.Is(err, store.ErrInvalidSubmission), errors.Is(err, phase.ErrInvalidPhase), errors.Is(err, phase.ErrInvalidStatus):
		gecho.BadRequest(w).WithMessage(err.Error()).Send()
	default:
		logger.Err(err.Error())
		gecho.InternalServerError(w).Send()
	}
}

// decodeBody decodes a json request body, answering 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		gecho.BadRequest(w).WithMessage(fmt.Sprintf("Error while decoding json: %s", err)).Send()
		return false
	}
	return true
}

func generateSecureToken(n int) (string, error) {
	// n is the number of bytes, not characters
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	// Encode as hexadecimal string
	return hex.EncodeToString(b), nil
}
