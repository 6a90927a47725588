package service

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
	nlog "github.com/yeisme/regvault/pkg/log"
	"github.com/yeisme/regvault/pkg/queue"
)

// AddDocument 把源文件复制进 documents/<id>/ 并登记元数据.
func (r *RegulationService) AddDocument(ctx context.Context, regulationID uint, req types.AddFileRequest, operator string) (types.DocumentInfo, error) {
	if _, err := r.load(ctx, regulationID, false); err != nil {
		return types.DocumentInfo{}, err
	}

	if _, err := os.Stat(req.SourcePath); err != nil {
		return types.DocumentInfo{}, errors.ErrSourceFile.WithReason(err.Error())
	}

	stored, err := r.filesClient.CopyDocument(regulationID, req.SourcePath)
	if err != nil {
		return types.DocumentInfo{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	doc := model.RegulationDocument{
		RegulationID: regulationID,
		FileName:     stored.Name,
		FilePath:     stored.Path,
		FileType:     fileExt(stored.Name),
		Size:         stored.Size,
		Hash:         stored.Hash,
		Description:  req.Description,
	}

	if err := r.dbClient.GetDB().WithContext(ctx).Create(&doc).Error; err != nil {
		return types.DocumentInfo{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	r.publishFileChange(ctx, queue.TopicDocumentAdded, queue.FileChangedPayload{
		RegulationID: regulationID,
		FileID:       doc.ID,
		FileName:     doc.FileName,
		Kind:         "document",
		Hash:         doc.Hash,
		Size:         doc.Size,
		Operator:     operator,
	})

	return types.DocumentInfo{
		ID:          doc.ID,
		FileName:    doc.FileName,
		FilePath:    doc.FilePath,
		FileType:    doc.FileType,
		Size:        doc.Size,
		Hash:        doc.Hash,
		Description: doc.Description,
		CreatedAt:   fmtTime(doc.CreatedAt),
	}, nil
}

// RemoveDocument 删除文档元数据并清理托管副本.
func (r *RegulationService) RemoveDocument(ctx context.Context, regulationID, docID uint, operator string) error {
	gdb := r.dbClient.GetDB().WithContext(ctx)

	var doc model.RegulationDocument
	if err := gdb.Where("regulation_id = ?", regulationID).First(&doc, docID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrDocumentNotFound
		}

		return errors.ErrStorageFailed.WithReason(err.Error())
	}

	if err := gdb.Delete(&doc).Error; err != nil {
		return errors.ErrStorageFailed.WithReason(err.Error())
	}

	if err := r.filesClient.RemoveStored(doc.FilePath); err != nil {
		nlog.Logger().Warn().Err(err).Str("path", doc.FilePath).Msg("remove stored document failed")
	}

	r.publishFileChange(ctx, queue.TopicDocumentRemoved, queue.FileChangedPayload{
		RegulationID: regulationID,
		FileID:       doc.ID,
		FileName:     doc.FileName,
		Kind:         "document",
		Operator:     operator,
	})

	return nil
}

// UpdateDocument 修改文档描述.
func (r *RegulationService) UpdateDocument(ctx context.Context, regulationID, docID uint, description string) error {
	result := r.dbClient.GetDB().WithContext(ctx).
		Model(&model.RegulationDocument{}).
		Where("id = ? AND regulation_id = ?", docID, regulationID).
		Update("description", description)
	if result.Error != nil {
		return errors.ErrStorageFailed.WithReason(result.Error.Error())
	}

	if result.RowsAffected == 0 {
		return errors.ErrDocumentNotFound
	}

	return nil
}

// AddCodeFile 把源文件复制进 codes/<id>/ 并登记元数据.
func (r *RegulationService) AddCodeFile(ctx context.Context, regulationID uint, req types.AddFileRequest, operator string) (types.CodeFileInfo, error) {
	if _, err := r.load(ctx, regulationID, false); err != nil {
		return types.CodeFileInfo{}, err
	}

	if _, err := os.Stat(req.SourcePath); err != nil {
		return types.CodeFileInfo{}, errors.ErrSourceFile.WithReason(err.Error())
	}

	stored, err := r.filesClient.CopyCodeFile(regulationID, req.SourcePath)
	if err != nil {
		return types.CodeFileInfo{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	language := req.Language
	if language == "" {
		language = languageForExt(fileExt(stored.Name))
	}

	cf := model.CodeFile{
		RegulationID: regulationID,
		FileName:     stored.Name,
		FilePath:     stored.Path,
		Language:     language,
		Version:      req.Version,
		Size:         stored.Size,
		Hash:         stored.Hash,
		Description:  req.Description,
	}

	if err := r.dbClient.GetDB().WithContext(ctx).Create(&cf).Error; err != nil {
		return types.CodeFileInfo{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	r.publishFileChange(ctx, queue.TopicCodeFileAdded, queue.FileChangedPayload{
		RegulationID: regulationID,
		FileID:       cf.ID,
		FileName:     cf.FileName,
		Kind:         "code",
		Hash:         cf.Hash,
		Size:         cf.Size,
		Operator:     operator,
	})

	return types.CodeFileInfo{
		ID:          cf.ID,
		FileName:    cf.FileName,
		FilePath:    cf.FilePath,
		Language:    cf.Language,
		Version:     cf.Version,
		Size:        cf.Size,
		Hash:        cf.Hash,
		Description: cf.Description,
		CreatedAt:   fmtTime(cf.CreatedAt),
	}, nil
}

// UpdateCodeFile 修改代码文件的版本号与描述.
func (r *RegulationService) UpdateCodeFile(ctx context.Context, regulationID, fileID uint, req types.UpdateCodeFileRequest) error {
	updates := map[string]any{}

	if req.Version != nil {
		updates["version"] = *req.Version
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) == 0 {
		return nil
	}

	result := r.dbClient.GetDB().WithContext(ctx).
		Model(&model.CodeFile{}).
		Where("id = ? AND regulation_id = ?", fileID, regulationID).
		Updates(updates)
	if result.Error != nil {
		return errors.ErrStorageFailed.WithReason(result.Error.Error())
	}

	if result.RowsAffected == 0 {
		return errors.ErrCodeFileNotFound
	}

	return nil
}

// RemoveCodeFile 删除代码文件元数据并清理托管副本.
func (r *RegulationService) RemoveCodeFile(ctx context.Context, regulationID, fileID uint, operator string) error {
	gdb := r.dbClient.GetDB().WithContext(ctx)

	var cf model.CodeFile
	if err := gdb.Where("regulation_id = ?", regulationID).First(&cf, fileID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrCodeFileNotFound
		}

		return errors.ErrStorageFailed.WithReason(err.Error())
	}

	if err := gdb.Delete(&cf).Error; err != nil {
		return errors.ErrStorageFailed.WithReason(err.Error())
	}

	if err := r.filesClient.RemoveStored(cf.FilePath); err != nil {
		nlog.Logger().Warn().Err(err).Str("path", cf.FilePath).Msg("remove stored code file failed")
	}

	r.publishFileChange(ctx, queue.TopicCodeFileRemoved, queue.FileChangedPayload{
		RegulationID: regulationID,
		FileID:       cf.ID,
		FileName:     cf.FileName,
		Kind:         "code",
		Operator:     operator,
	})

	return nil
}

func (r *RegulationService) publishFileChange(ctx context.Context, topic string, payload queue.FileChangedPayload) {
	err := queue.PublishEvent(ctx, r.mqClient, topic, payload, queue.WithProducer(configs.AppName))
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("publish file event failed")
	}
}

// fileExt 返回不带点的小写扩展名.
func fileExt(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// languageForExt 按扩展名猜代码语言，猜不出原样返回扩展名.
func languageForExt(ext string) string {
	switch ext {
	case "c", "h":
		return "c"
	case "cpp", "cc", "hpp":
		return "cpp"
	case "py":
		return "python"
	case "go":
		return "go"
	default:
		return ext
	}
}
