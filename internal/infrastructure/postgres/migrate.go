package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table. Parents are listed before the
// tables referencing them.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	models := []interface{}{
		&adminModel{},
		&tagModel{},
		&companyModel{},
		&memberModel{},
		&customerModel{},
		&caseModel{},
		&caseImageModel{},
		&inquiryModel{},
		&inquiryResponseModel{},
		&generalInquiryModel{},
		&generalInquiryResponseModel{},
		&activityLogModel{},
	}
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
