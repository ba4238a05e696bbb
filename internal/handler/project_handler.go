package handler

import (
	"net/http"

	"github.com/blues/cfescrow/internal/logic"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectLogic *logic.ProjectLogic
}

func NewProjectHandler(projectLogic *logic.ProjectLogic) *ProjectHandler {
	return &ProjectHandler{projectLogic: projectLogic}
}

// CreateProject 创建项目
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	call := callFrom(c)
	if err := h.projectLogic.CreateProject(c.Request.Context(), call, req.Name, req.Description, req.Deadline, req.Goal); err != nil {
		HandleError(c, err)
		return
	}

	project, err := h.projectLogic.GetProject(c.Request.Context(), req.Name)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "项目创建成功", ToProjectResponse(project))
}

// GetProjects 获取项目列表
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	names, err := h.projectLogic.GetProjects(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	SuccessResponse(c, http.StatusOK, "获取项目列表成功", GetProjectsResponse{Projects: names})
}

// GetProject 获取单个项目信息
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectLogic.GetProject(c.Request.Context(), c.Param("name"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取项目成功", ToProjectResponse(project))
}

// GetProjectDetail 获取项目详情
func (h *ProjectHandler) GetProjectDetail(c *gin.Context) {
	detail, err := h.projectLogic.GetProjectDetail(c.Request.Context(), c.Param("name"), callFrom(c).Timestamp)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取项目详情成功", ToProjectDetailResponse(detail))
}

// GetCollectedBudget 获取累计募集金额
func (h *ProjectHandler) GetCollectedBudget(c *gin.Context) {
	budget, err := h.projectLogic.GetCollectedBudget(c.Request.Context(), c.Param("name"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取募集金额成功", AmountResponse{Amount: budget.String()})
}

// GetProjectStatus 获取项目状态
func (h *ProjectHandler) GetProjectStatus(c *gin.Context) {
	status, err := h.projectLogic.GetProjectStatus(c.Request.Context(), c.Param("name"), callFrom(c).Timestamp)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取项目状态成功", StatusResponse{Status: string(status)})
}

// GetProjectStats 获取项目统计
func (h *ProjectHandler) GetProjectStats(c *gin.Context) {
	stats, err := h.projectLogic.GetProjectStats(c.Request.Context(), c.Param("name"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取项目统计成功", stats)
}
