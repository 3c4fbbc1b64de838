package postgres

import (
	"errors"
	"strings"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"gorm.io/gorm"
)

// translate maps driver errors (translated by GORM) to domain errors.
// notFound is the message used for gorm.ErrRecordNotFound.
func translate(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.Conflict("既に登録されています")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.Validation("関連するデータが見つかりません")
	}
	return domain.Upstream("データベースの処理に失敗しました", err)
}

// likePattern escapes LIKE wildcards and wraps the term for a contains match.
func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(term)) + "%"
}

func page(db *gorm.DB, paging domain.Paging) *gorm.DB {
	p := paging.Normalize()
	return db.Order("created_at DESC").Order("id DESC").Offset(p.Offset()).Limit(p.Limit)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
