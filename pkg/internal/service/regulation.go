package service

import (
	"context"
	stderrors "errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
	nlog "github.com/yeisme/regvault/pkg/log"
	"github.com/yeisme/regvault/pkg/queue"
)

// RegulationService 负责法规主数据的增删改查.
type RegulationService struct {
	*baseService
}

// NewRegulationService 从 context 获取依赖实例.
func NewRegulationService(c context.Context) *RegulationService {
	return &RegulationService{newBaseService(c)}
}

// Create 新建法规，编号重复返回冲突错误.
func (r *RegulationService) Create(ctx context.Context, req types.CreateRegulationRequest, operator string) (types.RegulationInfo, error) {
	gdb := r.dbClient.GetDB().WithContext(ctx)

	var count int64
	if err := gdb.Model(&model.Regulation{}).Where("code = ?", req.Code).Count(&count).Error; err != nil {
		return types.RegulationInfo{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	if count > 0 {
		return types.RegulationInfo{}, errors.ErrRegulationCodeExists
	}

	status := req.Status
	if status == "" {
		status = model.StatusDraft
	}

	reg := model.Regulation{
		Code:          req.Code,
		Name:          req.Name,
		Country:       req.Country,
		Category:      req.Category,
		Status:        status,
		Version:       req.Version,
		Description:   req.Description,
		EffectiveDate: req.EffectiveDate,
	}

	tags, err := r.ensureTags(ctx, req.Tags)
	if err != nil {
		return types.RegulationInfo{}, err
	}

	reg.Tags = tags

	if err := gdb.Create(&reg).Error; err != nil {
		return types.RegulationInfo{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	r.recordHistory(ctx, model.ChangeHistory{
		RegulationID: reg.ID,
		Action:       model.ActionCreate,
		Snapshot:     snapshotJSON(reg),
		Operator:     operator,
	})

	r.publishChange(ctx, queue.RegulationChangedPayload{
		RegulationID: reg.ID,
		Code:         reg.Code,
		Name:         reg.Name,
		Action:       model.ActionCreate,
		Operator:     operator,
	})

	return regulationToInfo(reg), nil
}

// Get 按 id 取法规，带文档、代码文件与标签.
func (r *RegulationService) Get(ctx context.Context, id uint) (types.RegulationInfo, error) {
	reg, err := r.load(ctx, id, true)
	if err != nil {
		return types.RegulationInfo{}, err
	}

	return regulationToInfo(*reg), nil
}

// GetByCode 按编号取法规.
func (r *RegulationService) GetByCode(ctx context.Context, code string) (types.RegulationInfo, error) {
	var reg model.Regulation

	err := r.dbClient.GetDB().WithContext(ctx).
		Preload("Documents").Preload("CodeFiles").Preload("Tags").
		Where("code = ?", code).First(&reg).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return types.RegulationInfo{}, errors.ErrRegulationNotFound
		}

		return types.RegulationInfo{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	return regulationToInfo(reg), nil
}

// Update 部分更新法规，只改非 nil 字段；Tags 非 nil 时整体替换标签集合.
// 变更前对象以 JSON 快照写入历史.
func (r *RegulationService) Update(ctx context.Context, id uint, req types.UpdateRegulationRequest, operator string) (types.RegulationInfo, error) {
	reg, err := r.load(ctx, id, true)
	if err != nil {
		return types.RegulationInfo{}, err
	}

	before := snapshotJSON(reg)

	changed := make([]string, 0, 8)
	updates := map[string]any{}

	apply := func(field string, p *string, dst *string) {
		if p != nil && *p != *dst {
			updates[field] = *p
			*dst = *p

			changed = append(changed, field)
		}
	}

	apply("name", req.Name, &reg.Name)
	apply("country", req.Country, &reg.Country)
	apply("category", req.Category, &reg.Category)
	apply("status", req.Status, &reg.Status)
	apply("version", req.Version, &reg.Version)
	apply("description", req.Description, &reg.Description)
	apply("effective_date", req.EffectiveDate, &reg.EffectiveDate)

	gdb := r.dbClient.GetDB().WithContext(ctx)

	if len(updates) > 0 {
		if err := gdb.Model(reg).Updates(updates).Error; err != nil {
			return types.RegulationInfo{}, errors.ErrStorageFailed.WithReason(err.Error())
		}
	}

	if req.Tags != nil {
		tags, err := r.ensureTags(ctx, *req.Tags)
		if err != nil {
			return types.RegulationInfo{}, err
		}

		if err := gdb.Model(reg).Association("Tags").Replace(tags); err != nil {
			return types.RegulationInfo{}, errors.ErrStorageFailed.WithReason(err.Error())
		}

		reg.Tags = tags

		changed = append(changed, "tags")
	}

	if len(changed) > 0 {
		r.recordHistory(ctx, model.ChangeHistory{
			RegulationID: reg.ID,
			Action:       model.ActionUpdate,
			Field:        strings.Join(changed, ","),
			Snapshot:     before,
			Operator:     operator,
		})

		r.publishChange(ctx, queue.RegulationChangedPayload{
			RegulationID: reg.ID,
			Code:         reg.Code,
			Name:         reg.Name,
			Action:       model.ActionUpdate,
			Fields:       changed,
			Operator:     operator,
		})
	}

	return regulationToInfo(*reg), nil
}

// Delete 删除法规：先写删除快照历史，再尽力清理托管目录，最后在事务里
// 删除参数、文档、代码文件与标签关联以及法规本体. 目录清理失败不阻断删除，
// 以警告随结果返回.
func (r *RegulationService) Delete(ctx context.Context, id uint, operator string) (types.DeleteRegulationResponse, error) {
	reg, err := r.load(ctx, id, true)
	if err != nil {
		return types.DeleteRegulationResponse{}, err
	}

	r.recordHistory(ctx, model.ChangeHistory{
		RegulationID: reg.ID,
		Action:       model.ActionDelete,
		Snapshot:     snapshotJSON(reg),
		Operator:     operator,
	})

	resp := types.DeleteRegulationResponse{ID: reg.ID}

	if err := r.filesClient.RemoveRegulationDirs(reg.ID); err != nil {
		nlog.Logger().Warn().Err(err).Uint("regulation_id", reg.ID).
			Msg("remove managed dirs failed, rows will still be deleted")

		resp.Warnings = append(resp.Warnings, "remove managed dirs failed: "+err.Error())
	}

	err = r.dbClient.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("regulation_id = ?", reg.ID).Delete(&model.Parameter{}).Error; err != nil {
			return err
		}

		if err := tx.Where("regulation_id = ?", reg.ID).Delete(&model.RegulationDocument{}).Error; err != nil {
			return err
		}

		if err := tx.Where("regulation_id = ?", reg.ID).Delete(&model.CodeFile{}).Error; err != nil {
			return err
		}

		if err := tx.Where("regulation_id = ?", reg.ID).Delete(&model.RegulationTag{}).Error; err != nil {
			return err
		}

		// 物理删除，编号随后可重新使用
		return tx.Unscoped().Delete(&model.Regulation{}, reg.ID).Error
	})
	if err != nil {
		return types.DeleteRegulationResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	r.publishChange(ctx, queue.RegulationChangedPayload{
		RegulationID: reg.ID,
		Code:         reg.Code,
		Name:         reg.Name,
		Action:       model.ActionDelete,
		Operator:     operator,
	})

	return resp, nil
}

// List 按过滤条件分页列出法规，创建时间倒序.
func (r *RegulationService) List(ctx context.Context, req types.ListRegulationsRequest) (types.ListRegulationsResponse, error) {
	page, size := normalizePage(req.Page, req.Size)

	query := r.dbClient.GetDB().WithContext(ctx).Model(&model.Regulation{})

	if req.Country != "" {
		query = query.Where("country = ?", req.Country)
	}

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	if req.Keyword != "" {
		kw := "%" + req.Keyword + "%"
		query = query.Where("code LIKE ? OR name LIKE ? OR description LIKE ?", kw, kw, kw)
	}

	if len(req.Tags) > 0 {
		query = query.
			Joins("JOIN regulation_tags rt ON rt.regulation_id = regulations.id").
			Joins("JOIN tags ON tags.id = rt.tag_id").
			Where("tags.name IN ?", req.Tags).
			Distinct("regulations.*")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return types.ListRegulationsResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	var rows []model.Regulation

	err := query.Preload("Tags").
		Order("regulations.created_at DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&rows).Error
	if err != nil {
		return types.ListRegulationsResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	infos := make([]types.RegulationInfo, 0, len(rows))
	for _, reg := range rows {
		infos = append(infos, regulationToInfo(reg))
	}

	return types.ListRegulationsResponse{
		Total:       int(total),
		Page:        page,
		Size:        size,
		Regulations: infos,
	}, nil
}

// load 取单条法规，preload 控制是否带关联.
func (r *RegulationService) load(ctx context.Context, id uint, preload bool) (*model.Regulation, error) {
	query := r.dbClient.GetDB().WithContext(ctx)
	if preload {
		query = query.Preload("Documents").Preload("CodeFiles").Preload("Tags")
	}

	var reg model.Regulation
	if err := query.First(&reg, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrRegulationNotFound
		}

		return nil, errors.ErrStorageFailed.WithReason(err.Error())
	}

	return &reg, nil
}

// ensureTags 按名称取或建标签，忽略空白名并去重.
func (r *RegulationService) ensureTags(ctx context.Context, names []string) ([]model.Tag, error) {
	gdb := r.dbClient.GetDB().WithContext(ctx)

	seen := make(map[string]struct{}, len(names))
	tags := make([]model.Tag, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}

		var tag model.Tag
		if err := gdb.Where("name = ?", name).FirstOrCreate(&tag, model.Tag{Name: name}).Error; err != nil {
			return nil, errors.ErrStorageFailed.WithReason(err.Error())
		}

		tags = append(tags, tag)
	}

	return tags, nil
}

// publishChange 发布法规变更事件，失败只告警.
func (r *RegulationService) publishChange(ctx context.Context, payload queue.RegulationChangedPayload) {
	err := queue.PublishRegulationChanged(ctx, r.mqClient, payload, queue.WithProducer(configs.AppName))
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("code", payload.Code).Msg("publish regulation event failed")
	}
}

func regulationToInfo(reg model.Regulation) types.RegulationInfo {
	info := types.RegulationInfo{
		ID:            reg.ID,
		Code:          reg.Code,
		Name:          reg.Name,
		Country:       reg.Country,
		Category:      reg.Category,
		Status:        reg.Status,
		Version:       reg.Version,
		Description:   reg.Description,
		EffectiveDate: reg.EffectiveDate,
		CreatedAt:     fmtTime(reg.CreatedAt),
		UpdatedAt:     fmtTime(reg.UpdatedAt),
	}

	for _, tag := range reg.Tags {
		info.Tags = append(info.Tags, tag.Name)
	}

	for _, doc := range reg.Documents {
		info.Documents = append(info.Documents, types.DocumentInfo{
			ID:          doc.ID,
			FileName:    doc.FileName,
			FilePath:    doc.FilePath,
			FileType:    doc.FileType,
			Size:        doc.Size,
			Hash:        doc.Hash,
			Description: doc.Description,
			CreatedAt:   fmtTime(doc.CreatedAt),
		})
	}

	for _, cf := range reg.CodeFiles {
		info.CodeFiles = append(info.CodeFiles, types.CodeFileInfo{
			ID:          cf.ID,
			FileName:    cf.FileName,
			FilePath:    cf.FilePath,
			Language:    cf.Language,
			Size:        cf.Size,
			Hash:        cf.Hash,
			Description: cf.Description,
			CreatedAt:   fmtTime(cf.CreatedAt),
		})
	}

	return info
}
