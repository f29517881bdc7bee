package preset

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"lookframe-server/modules/common/config"
	"lookframe-server/modules/common/database"
	"lookframe-server/modules/common/model"
	"lookframe-server/modules/recommend"
)

type Handler struct {
	cfg *config.Config
	db  *database.Client
}

func NewHandler(cfg *config.Config, db *database.Client) *Handler {
	return &Handler{cfg: cfg, db: db}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/studio/presets", h.HandleList).Methods("GET")
	r.HandleFunc("/studio/presets", h.HandleCreate).Methods("POST")
	r.HandleFunc("/studio/presets/recommend", h.HandleRecommend).Methods("GET")
	r.HandleFunc("/studio/presets/{presetId}", h.HandleDelete).Methods("DELETE")
	r.HandleFunc("/studio/presets/{presetId}/apply", h.HandleApply).Methods("POST")
}

// HandleList - 사용자의 프리셋 목록
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	presets, err := h.db.FetchPresets(userID)
	if err != nil {
		log.Printf("❌ [Preset] Failed to fetch presets for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch presets")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"presets": presets,
	})
}

// HandleCreate - 프리셋 저장
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var preset model.Preset
	if err := json.NewDecoder(r.Body).Decode(&preset); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if preset.UserID == "" || preset.PresetName == "" {
		writeError(w, http.StatusBadRequest, "userId and presetName are required")
		return
	}

	now := time.Now().UTC()
	preset.PresetID = uuid.New().String()
	preset.UseCount = 0
	preset.CreatedAt = now
	preset.UpdatedAt = now

	if err := h.db.CreatePreset(r.Context(), &preset); err != nil {
		log.Printf("❌ [Preset] Failed to create preset: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create preset")
		return
	}

	log.Printf("💾 [Preset] Created preset %s for %s", preset.PresetID, preset.UserID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"preset":  preset,
	})
}

// HandleDelete - 프리셋 삭제
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	presetID := mux.Vars(r)["presetId"]

	if err := h.db.DeletePreset(r.Context(), presetID); err != nil {
		log.Printf("❌ [Preset] Failed to delete preset %s: %v", presetID, err)
		writeError(w, http.StatusInternalServerError, "failed to delete preset")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// HandleApply - 프리셋 적용. 사용 횟수를 올리고 생성 파라미터를 돌려준다.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	presetID := mux.Vars(r)["presetId"]

	preset, err := h.db.FetchPreset(presetID)
	if err != nil {
		writeError(w, http.StatusNotFound, "preset not found")
		return
	}

	if err := h.db.BumpPresetUsage(r.Context(), presetID); err != nil {
		log.Printf("⚠️ [Preset] Failed to bump usage for %s: %v", presetID, err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"params": map[string]interface{}{
			"type":        preset.DisplayMode,
			"style":       preset.Style,
			"scene":       preset.Scene,
			"quality":     preset.Quality,
			"aspectRatio": preset.AspectRatio,
			"customText":  preset.CustomText,
		},
	})
}

// HandleRecommend - 추천 프리셋 목록 (점수 내림차순)
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	presets, err := h.db.FetchPresets(userID)
	if err != nil {
		log.Printf("❌ [Preset] Failed to fetch presets for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch presets")
		return
	}

	ranked := recommend.RankPresets(presets, h.cfg.TrendingStyles, time.Now().UTC(), limit)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"recommendations": ranked,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
