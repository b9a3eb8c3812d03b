package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"sixty-content-api/internal/application/content"
	"sixty-content-api/internal/config"
	"sixty-content-api/internal/domain/entity"
	"sixty-content-api/internal/domain/repository"
	"sixty-content-api/internal/infrastructure/persistence/redis"
	"sixty-content-api/internal/interfaces/http/dto"
	apperrors "sixty-content-api/pkg/errors"
	"sixty-content-api/pkg/logger"
)

// ContentHandler 内容生成与版本链查询处理器
type ContentHandler struct {
	orchestrator *content.Orchestrator
	contents     repository.ContentRepository
	cache        *redis.Cache
	cfg          *config.Config
}

// NewContentHandler 创建内容处理器
func NewContentHandler(
	orchestrator *content.Orchestrator,
	contents repository.ContentRepository,
	cache *redis.Cache,
	cfg *config.Config,
) *ContentHandler {
	return &ContentHandler{
		orchestrator: orchestrator,
		contents:     contents,
		cache:        cache,
		cfg:          cfg,
	}
}

// Generate 生成营销内容
// @Summary 生成营销内容
// @Description 基于会议转写与已提取话题生成指定类别的营销内容；已有最新版且未强制重新生成时直接返回缓存结果
// @Tags Content
// @Accept json
// @Produce json
// @Param mid path string true "会议 ID"
// @Param request body dto.GenerateContentRequest true "生成请求"
// @Success 200 {object} dto.Response[dto.GenerateContentResponse]
// @Router /v1/meetings/{mid}/content [post]
func (h *ContentHandler) Generate(c *gin.Context) {
	meetingID := dto.BindMeetingID(c)
	if meetingID == "" {
		dto.BadRequest(c, "meeting id is required")
		return
	}

	var req dto.GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	kind, err := entity.ParseContentKind(req.Kind)
	if err != nil {
		respondError(c, apperrors.ErrInvalidContentKind.WithDetail(req.Kind))
		return
	}

	provider, model, err := resolveProviderModel(h.cfg, req.Provider, req.Model)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	result, err := h.orchestrator.Handle(c.Request.Context(), content.GenerateRequest{
		MeetingID:       meetingID,
		Kind:            kind,
		TopicIndices:    req.TopicIndices,
		ForceRegenerate: req.ForceRegenerate,
		Provider:        provider,
		Model:           model,
		UserID:          currentUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.GenerateContentResponse{
		Content: dto.FromContentEntity(result.Record),
		Metadata: &dto.GenerateMetadata{
			ModelUsed:  result.Record.ModelUsed,
			TokensUsed: result.Record.TokensUsed,
			CostCents:  result.Record.CostCents,
			Cached:     result.Cached,
			TopicsUsed: result.TopicsUsed,
		},
	})
}

// GetLatest 查询版本链最新内容
// @Summary 查询最新内容
// @Description 返回指定会议与类别的当前最新版本；短 TTL 读缓存
// @Tags Content
// @Produce json
// @Param mid path string true "会议 ID"
// @Param kind path string true "内容类别"
// @Success 200 {object} dto.Response[dto.ContentResponse]
// @Router /v1/meetings/{mid}/content/{kind}/latest [get]
func (h *ContentHandler) GetLatest(c *gin.Context) {
	meetingID := dto.BindMeetingID(c)
	kind, err := entity.ParseContentKind(dto.BindKind(c))
	if err != nil {
		respondError(c, apperrors.ErrInvalidContentKind.WithDetail(dto.BindKind(c)))
		return
	}

	ctx := c.Request.Context()

	if h.cache != nil {
		key := redis.BuildLatestContentKey(meetingID, string(kind))
		raw, err := h.cache.GetOrLoadSafe(ctx, key, h.cfg.Generation.LatestCacheTTL, func() (interface{}, error) {
			latest, err := h.contents.FindLatest(ctx, meetingID, kind)
			if err != nil {
				return nil, err
			}
			if latest == nil {
				return nil, apperrors.ErrContentNotFound
			}
			return dto.FromContentEntity(latest), nil
		})
		if err != nil {
			respondError(c, err)
			return
		}
		var resp dto.ContentResponse
		if err := json.Unmarshal(raw, &resp); err == nil {
			dto.Success(c, &resp)
			return
		}
		// 缓存内容损坏时回源
		logger.Warn(ctx, "corrupt latest content cache entry", "key", key)
	}

	latest, err := h.contents.FindLatest(ctx, meetingID, kind)
	if err != nil {
		respondError(c, err)
		return
	}
	if latest == nil {
		respondError(c, apperrors.ErrContentNotFound)
		return
	}
	dto.Success(c, dto.FromContentEntity(latest))
}

// ListVersions 查询版本链
// @Summary 查询版本链
// @Description 按版本号降序返回指定会议与类别的全部版本
// @Tags Content
// @Produce json
// @Param mid path string true "会议 ID"
// @Param kind path string true "内容类别"
// @Success 200 {object} dto.Response[dto.VersionListResponse]
// @Router /v1/meetings/{mid}/content/{kind}/versions [get]
func (h *ContentHandler) ListVersions(c *gin.Context) {
	meetingID := dto.BindMeetingID(c)
	kind, err := entity.ParseContentKind(dto.BindKind(c))
	if err != nil {
		respondError(c, apperrors.ErrInvalidContentKind.WithDetail(dto.BindKind(c)))
		return
	}

	page := dto.BindPage(c)
	result, err := h.contents.ListVersions(c.Request.Context(), meetingID, kind,
		repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondError(c, err)
		return
	}

	dto.SuccessWithPage(c, dto.VersionListResponse{
		Versions: dto.FromContentEntities(result.Items),
	}, dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Delete 软删除单个内容版本
// @Summary 删除内容版本
// @Description 软删除指定版本；删除的是最新版时链上前驱重新成为最新
// @Tags Content
// @Produce json
// @Param cid path string true "内容 ID"
// @Success 204
// @Router /v1/content/{cid} [delete]
func (h *ContentHandler) Delete(c *gin.Context) {
	contentID := dto.BindContentID(c)
	if contentID == "" {
		dto.BadRequest(c, "content id is required")
		return
	}

	ctx := c.Request.Context()

	record, err := h.contents.GetByID(ctx, contentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if record == nil {
		respondError(c, apperrors.ErrContentNotFound)
		return
	}

	if err := h.contents.SoftDelete(ctx, contentID); err != nil {
		respondError(c, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.InvalidateLatestContent(ctx, record.MeetingID, string(record.Kind)); err != nil {
			logger.Warn(ctx, "failed to invalidate latest content cache",
				"meeting_id", record.MeetingID, "kind", string(record.Kind), "error", err.Error())
		}
	}

	dto.NoContent(c)
}
