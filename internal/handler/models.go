package handler

import (
	"time"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/logic"
	"github.com/blues/cfescrow/internal/model"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorData 错误响应附带的错误码
type ErrorData struct {
	Code escrow.Code `json:"code"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}

// 请求模型

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Deadline    int64  `json:"deadline"` // 毫秒
	Goal        string `json:"goal" binding:"required,amount"`
}

// DonateRequest 捐款请求。链上模式下金额以 txHash 对应的转账为准，value 被忽略
type DonateRequest struct {
	Value  string `json:"value" binding:"omitempty,amount"`
	TxHash string `json:"txHash"`
}

// VoteRequest 投票请求
type VoteRequest struct {
	Choice *bool `json:"choice" binding:"required"`
}

// 项目相关响应模型

// ProjectResponse 项目响应模型
type ProjectResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	CreateTime  int64  `json:"createTime"`
	Deadline    int64  `json:"deadline"`
	Goal        string `json:"goal"`
}

// ProjectDetailResponse 项目详情响应
type ProjectDetailResponse struct {
	Project     ProjectResponse `json:"project"`
	Budget      string          `json:"budget"`
	OvrVotedYes string          `json:"ovrVotedYes"`
	OvrVotedNo  string          `json:"ovrVotedNo"`
	Status      string          `json:"status"`
	Claimed     bool            `json:"claimed"`
}

// GetProjectsResponse 获取项目列表响应
type GetProjectsResponse struct {
	Projects []string `json:"projects"`
}

// AmountResponse 金额查询响应
type AmountResponse struct {
	Amount string `json:"amount"`
}

// StatusResponse 状态查询响应
type StatusResponse struct {
	Status string `json:"status"`
}

// VotingStateResponse 投票统计响应
type VotingStateResponse struct {
	OvrVotedYes string `json:"ovrVotedYes"`
	OvrVotedNo  string `json:"ovrVotedNo"`
}

// VoteResponse 单个投票响应
type VoteResponse struct {
	Voter  string `json:"voter"`
	Choice bool   `json:"choice"`
}

// FlagResponse 领取或退款标记响应
type FlagResponse struct {
	Done bool `json:"done"`
}

// 流水相关响应模型

// ContributeRecordResponse 捐款记录响应模型
type ContributeRecordResponse struct {
	ID        int64     `json:"id"`
	Project   string    `json:"project"`
	Address   string    `json:"address"`
	Amount    string    `json:"amount"`
	Timestamp int64     `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetProjectContributeRecordsResponse 获取项目捐款记录响应
type GetProjectContributeRecordsResponse struct {
	Records    []ContributeRecordResponse `json:"records"`
	Pagination Pagination                 `json:"pagination"`
}

// VoteRecordResponse 投票记录响应模型
type VoteRecordResponse struct {
	ID        int64  `json:"id"`
	Address   string `json:"address"`
	Choice    bool   `json:"choice"`
	Weight    string `json:"weight"`
	Timestamp int64  `json:"timestamp"`
}

// GetProjectVoteRecordsResponse 获取项目投票记录响应
type GetProjectVoteRecordsResponse struct {
	Records    []VoteRecordResponse `json:"records"`
	Pagination Pagination           `json:"pagination"`
}

// PayoutRecordResponse 结算或退款记录响应模型
type PayoutRecordResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"` // claim, fee, refund
	Address   string    `json:"address"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp int64     `json:"timestamp"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetProjectSettlementsResponse 获取项目结算记录响应
type GetProjectSettlementsResponse struct {
	Settlements []PayoutRecordResponse `json:"settlements"`
	Refunds     []PayoutRecordResponse `json:"refunds"`
	Pagination  Pagination             `json:"pagination"`
}

// ToProjectResponse 转换项目信息
func ToProjectResponse(p *escrow.Project) ProjectResponse {
	return ProjectResponse{
		Name:        p.Name,
		Description: p.Description,
		Author:      p.Author,
		CreateTime:  p.CreateTime,
		Deadline:    p.Deadline,
		Goal:        p.Goal.String(),
	}
}

// ToProjectDetailResponse 转换项目详情
func ToProjectDetailResponse(d *escrow.Detail) ProjectDetailResponse {
	return ProjectDetailResponse{
		Project:     ToProjectResponse(&d.Project),
		Budget:      d.Budget.String(),
		OvrVotedYes: d.Tally.Yes.String(),
		OvrVotedNo:  d.Tally.No.String(),
		Status:      string(d.Status),
		Claimed:     d.Claimed,
	}
}

// ToContributeRecordResponseList 转换捐款记录列表
func ToContributeRecordResponseList(records []model.ContributeRecordModel) []ContributeRecordResponse {
	result := make([]ContributeRecordResponse, len(records))
	for i, record := range records {
		result[i] = ContributeRecordResponse{
			ID:        record.Id,
			Project:   record.ProjectName,
			Address:   record.Address,
			Amount:    record.Amount.String(),
			Timestamp: record.Timestamp,
			CreatedAt: record.CreatedAt,
		}
	}
	return result
}

// ToVoteRecordResponseList 转换投票记录列表
func ToVoteRecordResponseList(records []model.VoteRecordModel) []VoteRecordResponse {
	result := make([]VoteRecordResponse, len(records))
	for i, record := range records {
		result[i] = VoteRecordResponse{
			ID:        record.Id,
			Address:   record.Address,
			Choice:    record.Choice,
			Weight:    record.Weight.String(),
			Timestamp: record.Timestamp,
		}
	}
	return result
}

// ToSettlementsResponse 转换结算和退款记录
func ToSettlementsResponse(s *logic.Settlements, page, pageSize int) GetProjectSettlementsResponse {
	settlements := make([]PayoutRecordResponse, len(s.Settlements))
	for i, record := range s.Settlements {
		settlements[i] = PayoutRecordResponse{
			ID:        record.Id,
			Type:      string(record.SettlementType),
			Address:   record.Address,
			Amount:    record.Amount.String(),
			Status:    string(record.Status),
			Reason:    record.FailReason,
			Timestamp: record.Timestamp,
			UpdatedAt: record.UpdatedAt,
		}
	}
	refunds := make([]PayoutRecordResponse, len(s.Refunds))
	for i, record := range s.Refunds {
		refunds[i] = PayoutRecordResponse{
			ID:        record.Id,
			Type:      string(escrow.PayoutRefund),
			Address:   record.Address,
			Amount:    record.Amount.String(),
			Status:    string(record.Status),
			Reason:    record.RefundReason,
			Timestamp: record.Timestamp,
			UpdatedAt: record.UpdatedAt,
		}
	}
	return GetProjectSettlementsResponse{
		Settlements: settlements,
		Refunds:     refunds,
		Pagination:  newPagination(page, pageSize, s.Total),
	}
}
