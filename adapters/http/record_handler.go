package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	recordUC "github.com/khoahotran/portfolio-admin/internal/application/usecase/record"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

// RecordHandler serves the education and experience lists. The list routes
// return every owner's entries.
type RecordHandler struct {
	recordUseCase *recordUC.RecordUseCase
	logger        logger.Logger
}

func NewRecordHandler(uc *recordUC.RecordUseCase, log logger.Logger) *RecordHandler {
	return &RecordHandler{recordUseCase: uc, logger: log}
}

func (h *RecordHandler) AddEducation(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.Error(apperror.NewInvalidInput("cannot read request body", err))
		return
	}

	entries, err := h.recordUseCase.ReplaceEducation(c.Request.Context(), ownerID, body)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *RecordHandler) GetEducation(c *gin.Context) {
	entries, err := h.recordUseCase.ListEducation(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *RecordHandler) AddExperience(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.Error(apperror.NewInvalidInput("cannot read request body", err))
		return
	}

	entries, err := h.recordUseCase.ReplaceExperience(c.Request.Context(), ownerID, body)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *RecordHandler) GetExperience(c *gin.Context) {
	entries, err := h.recordUseCase.ListExperience(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
