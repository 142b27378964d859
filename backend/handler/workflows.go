package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/workflow"
	"github.com/gin-gonic/gin"
)

// mounted loads the :entity workflow of the :sid session
func (h *SessionHandler) mounted(c *gin.Context) (workflow.Workflow, bool) {
	s, ok := h.session(c)
	if !ok {
		return nil, false
	}
	wf, ok := s.Workflow(c.Param("entity"))
	if !ok {
		abortWithError(c, errWorkflowNotMounted)
		return nil, false
	}
	return wf, true
}

// reply answers with the snapshot after op, or with op's error
func reply(c *gin.Context, wf workflow.Workflow, err error) {
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, wf.Snapshot())
}

// Mount creates the workflow of an entity in the session
func (h *SessionHandler) Mount(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	wf, err := s.Mount(c.Request.Context(), c.Param("entity"))
	if err != nil && wf == nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wf.Snapshot())
}

func (h *SessionHandler) Snapshot(c *gin.Context) {
	if wf, ok := h.mounted(c); ok {
		c.JSON(http.StatusOK, wf.Snapshot())
	}
}

func (h *SessionHandler) Unmount(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Unmount(c.Param("entity"))
	c.Status(http.StatusNoContent)
}

type QueryRequest struct {
	Query string `json:"query"`
	Scope string `json:"scope"`
}

// Query feeds a keystroke; the search runs once typing settles
func (h *SessionHandler) Query(c *gin.Context) {
	wf, ok := h.mounted(c)
	if !ok {
		return
	}
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	wf.QueryChanged(req.Query, req.Scope)
	c.JSON(http.StatusAccepted, wf.Snapshot())
}

// Search runs the query right away
func (h *SessionHandler) Search(c *gin.Context) {
	wf, ok := h.mounted(c)
	if !ok {
		return
	}
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	reply(c, wf, wf.Search(c.Request.Context(), req.Query, req.Scope))
}

type SelectRequest struct {
	Index *int `json:"index" binding:"required"`
}

func (h *SessionHandler) Select(c *gin.Context) {
	wf, ok := h.mounted(c)
	if !ok {
		return
	}
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index is required"})
		return
	}
	reply(c, wf, wf.Select(c.Request.Context(), *req.Index))
}

func (h *SessionHandler) New(c *gin.Context) {
	if wf, ok := h.mounted(c); ok {
		reply(c, wf, wf.New())
	}
}

func (h *SessionHandler) Edit(c *gin.Context) {
	if wf, ok := h.mounted(c); ok {
		reply(c, wf, wf.Edit())
	}
}

// rawBody reads the request body as one JSON value. An empty body reads as
// fallback when one is given.
func rawBody(c *gin.Context, fallback string) (json.RawMessage, bool) {
	data, err := c.GetRawData()
	if err == nil && len(bytes.TrimSpace(data)) == 0 && fallback != "" {
		return json.RawMessage(fallback), true
	}
	if err != nil || !json.Valid(data) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return nil, false
	}
	return json.RawMessage(data), true
}

// rowIndex parses the :index path parameter
func rowIndex(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid row index"})
		return 0, false
	}
	return i, true
}

// PatchDraft merges a JSON patch into the draft
func (h *SessionHandler) PatchDraft(c *gin.Context) {
	wf, ok := h.mounted(c)
	if !ok {
		return
	}
	if patch, ok := rawBody(c, ""); ok {
		reply(c, wf, wf.ApplyDraft(patch))
	}
}

func (h *SessionHandler) AddRow(c *gin.Context) {
	wf, ok := h.mounted(c)
	if !ok {
		return
	}
	if row, ok := rawBody(c, "{}"); ok {
		reply(c, wf, wf.AddRow(c.Param("field"), row))
	}
}

func (h *SessionHandler) EditRow(c *gin.Context) {
	wf, ok := h.mounted(c)
	if !ok {
		return
	}
	i, ok := rowIndex(c)
	if !ok {
		return
	}
	if row, ok := rawBody(c, ""); ok {
		reply(c, wf, wf.EditRow(c.Param("field"), i, row))
	}
}

func (h *SessionHandler) DeleteRow(c *gin.Context) {
	wf, ok := h.mounted(c)
	if !ok {
		return
	}
	if i, ok := rowIndex(c); ok {
		reply(c, wf, wf.DeleteRow(c.Param("field"), i))
	}
}

// Save submits the draft. Validation and backend failures land in the
// snapshot outcome; only a refused transition is an HTTP error.
func (h *SessionHandler) Save(c *gin.Context) {
	if wf, ok := h.mounted(c); ok {
		reply(c, wf, wf.Save(c.Request.Context()))
	}
}

func (h *SessionHandler) Cancel(c *gin.Context) {
	if wf, ok := h.mounted(c); ok {
		reply(c, wf, wf.Cancel())
	}
}

func (h *SessionHandler) Back(c *gin.Context) {
	if wf, ok := h.mounted(c); ok {
		reply(c, wf, wf.Back())
	}
}
