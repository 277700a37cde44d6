package inscricoes

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

	r.POST("/inscricoes", auth.RequireRole(models.Aluno), h.Create)
	r.GET("/inscricoes/minhas", auth.RequireRole(models.Aluno), h.ListMine)

	staff := auth.RequireRole(models.Professor, models.Admin)
	r.GET("/inscricoes", staff, h.List)
	r.POST("/inscricoes/:id/aprovar", staff, h.Approve)
	r.DELETE("/inscricoes/:id", staff, h.Reject)
}

func (h *Handler) Create(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiErr(CodePermissionDenied, "unauthenticated"))
		return
	}
	var req CreateInscricaoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), caller, req)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.Header("Location", "/inscricoes/"+res.ID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListMine(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiErr(CodePermissionDenied, "unauthenticated"))
		return
	}
	res, err := h.svc.ListMine(c.Request.Context(), caller)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res})
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
	if v := c.Query("status"); v != "" {
		q.Status = &v
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

func (h *Handler) Approve(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiErr(CodePermissionDenied, "unauthenticated"))
		return
	}
	res, err := h.svc.Approve(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Reject(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiErr(CodePermissionDenied, "unauthenticated"))
		return
	}
	if err := h.svc.Reject(c.Request.Context(), caller, c.Param("id")); err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.Status(http.StatusNoContent)
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
