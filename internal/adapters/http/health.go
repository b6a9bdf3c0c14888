package httpadapter

import "net/http"

type healthResponse struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	APIKeyConfigured bool   `json:"apiKeyConfigured"`
	ModelAvailable   bool   `json:"modelAvailable"`
}

func (rt *Router) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	result := rt.health.Check(r.Context())
	status := "healthy"
	code := http.StatusOK
	if !result.Healthy {
		status = "error"
		code = http.StatusInternalServerError
	}

	writeJSON(w, code, healthResponse{
		Status:           status,
		Message:          result.Message,
		APIKeyConfigured: result.APIKeyConfigured,
		ModelAvailable:   result.ModelAvailable,
	})
}
