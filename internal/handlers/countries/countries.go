package countries

import (
	"net/http"

	"github.com/PancyStudios/GeoGateGo/internal/handlers/respond"
	"github.com/PancyStudios/GeoGateGo/internal/workflows"
	countrywf "github.com/PancyStudios/GeoGateGo/internal/workflows/countries"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/gin-gonic/gin"
)

// previewLimit is how many blocked countries the summary lists by name
const previewLimit = 10

type handler struct {
	store     Store
	metrics   *metrics.Metrics
	selection *countrywf.Selection
}

type listResponse struct {
	Countries    []models.Country `json:"countries"`
	BlockedCount int              `json:"blockedCount"`
	Preview      []models.Country `json:"preview"`
	More         int              `json:"more"`
}

type blockedRequest struct {
	Codes []string `json:"codes"`
}

type bulkRequest struct {
	Search string `json:"search"`
	Select *bool  `json:"select"`
}

// list returns the countries matching ?search= with the blocked summary
func (h *handler) list(c *gin.Context) {
	current, ok := respond.Current(c, h.store)
	if !ok {
		return
	}

	view := countrywf.New(h.store, current.BlockedCountries, h.metrics)
	visible := view.Filter(c.Query("search"))
	preview, more := view.BlockedPreview(previewLimit)

	respond.OK(c, listResponse{
		Countries:    visible,
		BlockedCount: view.SelectedCount(),
		Preview:      preview,
		More:         more,
	})
}

// setBlocked replaces the blocked set with exactly the given codes
func (h *handler) setBlocked(c *gin.Context) {
	var req blockedRequest
	if !respond.Bind(c, &req) {
		return
	}
	if req.Codes == nil {
		respond.Error(c, models.NewValidationError("codes", "is required"))
		return
	}
	if !h.refresh(c) {
		return
	}
	if err := h.selection.SetBlocked(req.Codes); err != nil {
		respond.Error(c, err)
		return
	}
	h.commit(c)
}

// bulk selects or deselects every country matching search
func (h *handler) bulk(c *gin.Context) {
	var req bulkRequest
	if !respond.Bind(c, &req) {
		return
	}
	if req.Select == nil {
		respond.Error(c, models.NewValidationError("select", "is required"))
		return
	}
	if !h.refresh(c) {
		return
	}
	h.selection.Filter(req.Search)
	h.selection.ToggleAll(*req.Select)
	h.commit(c)
}

// refresh adopts the persisted list unless a commit is already running
func (h *handler) refresh(c *gin.Context) bool {
	if h.selection.Saving() {
		respond.Error(c, workflows.ErrSaveInProgress)
		return false
	}
	current, ok := respond.Current(c, h.store)
	if !ok {
		return false
	}
	h.selection.Sync(current.BlockedCountries)
	return true
}

func (h *handler) commit(c *gin.Context) {
	saved, err := h.selection.Commit(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"blockedCountries": saved.BlockedCountries,
		"blockedCount":     saved.BlockedCount(),
	})
}
