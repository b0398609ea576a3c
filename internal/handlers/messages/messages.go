package messages

import (
	"github.com/PancyStudios/GeoGateGo/internal/handlers/respond"
	"github.com/PancyStudios/GeoGateGo/internal/workflows"
	"github.com/PancyStudios/GeoGateGo/internal/workflows/messages"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/gin-gonic/gin"
)

type handler struct {
	store   Store
	metrics *metrics.Metrics
	editor  *messages.Editor
}

// messagePatch changes only the fields it carries
type messagePatch struct {
	Message           *string `json:"message"`
	ShowContactButton *bool   `json:"showContactButton"`
	ShowSocialLinks   *bool   `json:"showSocialLinks"`
}

type replaceRequest struct {
	BlockMessages []models.BlockMessage `json:"blockMessages"`
}

func (p messagePatch) apply(e *messages.Editor, code string) error {
	if p.Message != nil {
		if err := e.SetMessageText(code, *p.Message); err != nil {
			return err
		}
	}
	if p.ShowContactButton != nil {
		if err := e.SetShowContactButton(code, *p.ShowContactButton); err != nil {
			return err
		}
	}
	if p.ShowSocialLinks != nil {
		if err := e.SetShowSocialLinks(code, *p.ShowSocialLinks); err != nil {
			return err
		}
	}
	return nil
}

// list returns every message plus the one for ?language= (the first language by default)
func (h *handler) list(c *gin.Context) {
	current, ok := respond.Current(c, h.store)
	if !ok {
		return
	}
	view := messages.New(h.store, current.BlockMessages, h.metrics)
	if code := c.Query("language"); code != "" {
		if err := view.SelectLanguage(code); err != nil {
			respond.Error(c, err)
			return
		}
	}
	respond.OK(c, gin.H{
		"blockMessages": view.Messages(),
		"language":      view.Language(),
		"selected":      view.Selected(),
	})
}

// replace writes every message in the body; languages left out keep their text
func (h *handler) replace(c *gin.Context) {
	var req replaceRequest
	if !respond.Bind(c, &req) {
		return
	}
	if !h.refresh(c) {
		return
	}
	for _, m := range req.BlockMessages {
		patch := messagePatch{
			Message:           &m.Message,
			ShowContactButton: &m.ShowContactButton,
			ShowSocialLinks:   &m.ShowSocialLinks,
		}
		if err := patch.apply(h.editor, m.Language); err != nil {
			respond.Error(c, err)
			return
		}
	}
	h.commit(c)
}

func (h *handler) updateLanguage(c *gin.Context) {
	var patch messagePatch
	if !respond.Bind(c, &patch) {
		return
	}
	if !h.refresh(c) {
		return
	}
	code := c.Param("language")
	if err := h.editor.SelectLanguage(code); err != nil {
		respond.Error(c, err)
		return
	}
	if err := patch.apply(h.editor, code); err != nil {
		respond.Error(c, err)
		return
	}
	h.commit(c)
}

func (h *handler) languages(c *gin.Context) {
	respond.OK(c, gin.H{"languages": models.Languages})
}

// refresh adopts the persisted messages unless a commit is already running
func (h *handler) refresh(c *gin.Context) bool {
	if h.editor.Saving() {
		respond.Error(c, workflows.ErrSaveInProgress)
		return false
	}
	current, ok := respond.Current(c, h.store)
	if !ok {
		return false
	}
	h.editor.Sync(current.BlockMessages)
	return true
}

func (h *handler) commit(c *gin.Context) {
	saved, err := h.editor.Commit(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"blockMessages": saved.BlockMessages})
}
