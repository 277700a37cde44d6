package presencas

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"instituto-backend/internal/models"
	"instituto-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	staff := auth.RequireRole(models.Professor, models.Admin)
	r.PUT("/presencas/chamada", staff, h.RecordChamada)
	r.GET("/presencas/chamada", staff, h.GetChamada)
	r.GET("/presencas", h.List)
}

func (h *Handler) RecordChamada(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiErr(CodePermissionDenied, "unauthenticated"))
		return
	}
	var req ChamadaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.RecordChamada(c.Request.Context(), caller, req)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetChamada(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiErr(CodePermissionDenied, "unauthenticated"))
		return
	}
	modalidadeID := c.Query("modalidade_id")
	dataAula := c.Query("data_aula")
	if modalidadeID == "" || dataAula == "" {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "modalidade_id e data_aula sao obrigatorios"))
		return
	}
	res, err := h.svc.GetChamada(c.Request.Context(), caller, modalidadeID, dataAula)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) List(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiErr(CodePermissionDenied, "unauthenticated"))
		return
	}
	var q ListQuery
	if v := c.Query("modalidade_id"); v != "" {
		q.ModalidadeID = &v
	}
	if v := c.Query("aluno_id"); v != "" {
		q.AlunoID = &v
	}
	if v := c.Query("de"); v != "" {
		q.De = &v
	}
	if v := c.Query("ate"); v != "" {
		q.Ate = &v
	}
	q.Limit = atoiDef(c.Query("limit"), DefaultPageLimit)
	q.Offset = atoiDef(c.Query("offset"), 0)

	items, total, err := h.svc.List(c.Request.Context(), caller, q)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// ===== helpers =====

func atoiDef(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}

type errDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func apiErr(code Code, msg string) errDTO {
	var e errDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func apiErrFrom(err error) errDTO {
	if api, ok := err.(*APIError); ok {
		return apiErr(api.Code, api.Message)
	}
	return apiErr(CodeInternal, err.Error())
}
