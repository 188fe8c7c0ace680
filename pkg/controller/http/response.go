package http

import (
	"encoding/json"
	"net/http"

	"github.com/pressbridge/pressbridge/pkg/utils/errutil"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Default().Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err)
}
