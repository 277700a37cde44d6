package relatorios

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"instituto-backend/internal/models"
	"instituto-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/relatorios/frequencia/aluno/:id", h.FrequenciaAluno)
	r.GET("/relatorios/frequencia/professor/:id", h.FrequenciaProfessor)

	adminOnly := auth.RequireRole(models.Admin)
	r.GET("/relatorios/frequencia/modalidades", adminOnly, h.FrequenciaModalidades)
	r.GET("/relatorios/frequencia/modalidades/export", adminOnly, h.ExportFrequenciaModalidades)
	r.GET("/relatorios/dashboard", adminOnly, h.Dashboard)
}

func (h *Handler) FrequenciaAluno(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiErr(CodePermissionDenied, "unauthenticated"))
		return
	}
	res, err := h.svc.FrequenciaAluno(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) FrequenciaProfessor(c *gin.Context) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apiErr(CodePermissionDenied, "unauthenticated"))
		return
	}
	res, err := h.svc.FrequenciaProfessor(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) FrequenciaModalidades(c *gin.Context) {
	res, err := h.svc.FrequenciaModalidades(c.Request.Context(), c.Query("unidade"))
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ExportFrequenciaModalidades(c *gin.Context) {
	data, name, err := h.svc.ExportFrequenciaModalidades(c.Request.Context(), c.Query("unidade"))
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) Dashboard(c *gin.Context) {
	res, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ===== helpers =====

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
