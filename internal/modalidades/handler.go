package modalidades

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

	adminOnly := auth.RequireRole(models.Admin)
	r.POST("/modalidades", adminOnly, h.Create)
	r.PUT("/modalidades/:id", adminOnly, h.Update)
	r.GET("/modalidades", h.List)
	r.GET("/modalidades/:id", h.Get)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateModalidadeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.Header("Location", "/modalidades/"+res.ID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateModalidadeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Get(c *gin.Context) {
	res, err := h.svc.Get(c.Request.Context(), c.Param("id"))
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
	if v := c.Query("unidade"); v != "" {
		q.Unidade = &v
	}
	if v := c.Query("professor_id"); v != "" {
		q.ProfessorID = &v
	}
	if v := c.Query("ativo"); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			q.Ativo = &b
		}
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
