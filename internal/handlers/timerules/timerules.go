package timerules

import (
	"net/http"
	"strings"

	"github.com/PancyStudios/GeoGateGo/internal/handlers/respond"
	"github.com/PancyStudios/GeoGateGo/internal/workflows"
	"github.com/PancyStudios/GeoGateGo/internal/workflows/timerules"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/gin-gonic/gin"
)

type handler struct {
	store   Store
	manager *timerules.Manager
}

// restrictionView adds the rendered summary lines to a restriction
type restrictionView struct {
	models.TimeRestriction
	Summary string `json:"summary"`
	Scope   string `json:"scope"`
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

func view(r models.TimeRestriction) restrictionView {
	return restrictionView{
		TimeRestriction: r,
		Summary:         timerules.Describe(r),
		Scope:           timerules.DescribeCountries(r.Countries),
	}
}

func views(list []models.TimeRestriction) []restrictionView {
	out := make([]restrictionView, len(list))
	for i, r := range list {
		out[i] = view(r)
	}
	return out
}

func (h *handler) list(c *gin.Context) {
	current, ok := respond.Current(c, h.store)
	if !ok {
		return
	}
	respond.OK(c, gin.H{"timeRestrictions": views(current.TimeRestrictions)})
}

// create fills the fields the body omits from the new-restriction template
func (h *handler) create(c *gin.Context) {
	record := timerules.Create()
	id := record.ID
	if !respond.Bind(c, &record) {
		return
	}
	record.ID = id

	if !h.refresh(c) {
		return
	}
	saved, err := h.manager.Save(c.Request.Context(), record)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"timeRestriction":  view(record),
		"timeRestrictions": views(saved.TimeRestrictions),
	})
}

// update overlays the body on the stored restriction; the id never changes
func (h *handler) update(c *gin.Context) {
	id := c.Param("id")
	if !h.refresh(c) {
		return
	}
	record, found := h.manager.Find(id)
	if !found {
		respond.Error(c, models.ErrNotFound)
		return
	}
	if !respond.Bind(c, &record) {
		return
	}
	record.ID = id

	saved, err := h.manager.Save(c.Request.Context(), record)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{
		"timeRestriction":  view(record),
		"timeRestrictions": views(saved.TimeRestrictions),
	})
}

func (h *handler) remove(c *gin.Context) {
	if !h.refresh(c) {
		return
	}
	saved, err := h.manager.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"timeRestrictions": views(saved.TimeRestrictions)})
}

func (h *handler) setEnabled(c *gin.Context) {
	var req enabledRequest
	if !respond.Bind(c, &req) {
		return
	}
	if req.Enabled == nil {
		respond.Error(c, models.NewValidationError("enabled", "is required"))
		return
	}
	if !h.refresh(c) {
		return
	}
	saved, err := h.manager.ToggleEnabled(c.Request.Context(), c.Param("id"), *req.Enabled)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"timeRestrictions": views(saved.TimeRestrictions)})
}

// timezones lists the supported zones and, with ?country=, the suggested one
func (h *handler) timezones(c *gin.Context) {
	current := c.DefaultQuery("current", models.DefaultTimezone)
	var countries []string
	if code := strings.ToUpper(strings.TrimSpace(c.Query("country"))); code != "" {
		countries = []string{code}
	}
	respond.OK(c, gin.H{
		"timezones": models.Timezones,
		"suggested": timerules.SuggestTimezone(countries, current),
	})
}

// refresh adopts the persisted list unless a write is already running
func (h *handler) refresh(c *gin.Context) bool {
	if h.manager.Saving() {
		respond.Error(c, workflows.ErrSaveInProgress)
		return false
	}
	current, ok := respond.Current(c, h.store)
	if !ok {
		return false
	}
	h.manager.Sync(current.TimeRestrictions)
	return true
}
