package prompt

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/admin/templates", h.HandleGet).Methods("GET")
	r.HandleFunc("/admin/templates", h.HandleUpdate).Methods("PUT")
}

// HandleGet - 현재 프롬프트 템플릿 세트 조회
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	set := h.store.Load(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"templates": set,
	})
}

// HandleUpdate - 템플릿 세트 갱신. 빈 필드는 기본값으로 채워진다.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var set TemplateSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	set = set.Backfill()

	if err := h.store.Save(r.Context(), set); err != nil {
		log.Printf("❌ [Prompt] Failed to save templates: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save templates")
		return
	}

	log.Printf("📝 [Prompt] Templates updated")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"templates": set,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
