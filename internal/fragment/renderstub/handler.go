package renderstub

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/hanko-fragments/internal/fragment/renderclient"
)

// Handler exposes the stub service over the render HTTP wire format.
func Handler(svc *Service, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Post("/render", func(w http.ResponseWriter, req *http.Request) {
		var in renderclient.Request
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		markup, err := svc.Render(req.Context(), in)
		if err != nil {
			logger.Warn("stub render failed", zap.String("page", in.PageName), zap.Error(err))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(renderclient.Response{HTML: markup}); err != nil {
			logger.Warn("stub response write failed", zap.Error(err))
		}
	})
	return r
}
