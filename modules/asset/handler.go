package asset

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"lookframe-server/modules/common/config"
	"lookframe-server/modules/common/database"
	"lookframe-server/modules/common/model"
	"lookframe-server/modules/common/storage"
)

type Handler struct {
	cfg     *config.Config
	db      *database.Client
	storage *storage.Client
}

func NewHandler(cfg *config.Config, db *database.Client, st *storage.Client) *Handler {
	return &Handler{cfg: cfg, db: db, storage: st}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/studio/assets", h.HandleList).Methods("GET")
	r.HandleFunc("/studio/assets/{assetId}", h.HandleGet).Methods("GET")
	r.HandleFunc("/studio/assets/{assetId}/content", h.HandleContent).Methods("GET")
	r.HandleFunc("/studio/assets/{assetId}", h.HandleDelete).Methods("DELETE")
}

// AssetView - URL이 붙은 자산 응답
type AssetView struct {
	model.Asset
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
}

func (h *Handler) toView(a model.Asset) AssetView {
	view := AssetView{
		Asset: a,
		URL:   fmt.Sprintf("%s/%s", h.cfg.SupabaseStorageBaseURL, a.FilePath),
	}
	if a.ThumbnailPath != nil {
		thumbURL := fmt.Sprintf("%s/%s", h.cfg.SupabaseStorageBaseURL, *a.ThumbnailPath)
		view.ThumbnailURL = &thumbURL
	}
	return view
}

// HandleList - 사용자의 생성 결과 목록
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	assets, err := h.db.FetchAssets(userID)
	if err != nil {
		log.Printf("❌ [Asset] Failed to fetch assets for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch assets")
		return
	}

	views := make([]AssetView, 0, len(assets))
	for _, a := range assets {
		views = append(views, h.toView(a))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"assets":  views,
	})
}

// HandleGet - 단일 자산 조회
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["assetId"]

	a, err := h.db.FetchAsset(assetID)
	if err != nil {
		writeError(w, http.StatusNotFound, "asset not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"asset":   h.toView(*a),
	})
}

// HandleContent - 자산 파일 바이너리 서빙 (Storage 프록시)
func (h *Handler) HandleContent(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["assetId"]

	a, err := h.db.FetchAsset(assetID)
	if err != nil {
		writeError(w, http.StatusNotFound, "asset not found")
		return
	}

	data, err := h.storage.Download(r.Context(), a.FilePath)
	if err != nil {
		log.Printf("❌ [Asset] Failed to download asset %s: %v", assetID, err)
		writeError(w, http.StatusBadGateway, "failed to fetch asset content")
		return
	}

	contentType := a.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleDelete - 자산 레코드 삭제
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["assetId"]

	if err := h.db.DeleteAsset(r.Context(), assetID); err != nil {
		log.Printf("❌ [Asset] Failed to delete asset %s: %v", assetID, err)
		writeError(w, http.StatusInternalServerError, "failed to delete asset")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
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
