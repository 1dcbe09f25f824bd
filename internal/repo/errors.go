package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"panchayat-portal/internal/domain"
)

// mapErr converts driver errors into domain errors.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isDupKey(err):
		return domain.ErrDuplicate
	}
	return err
}

// isDupKey catches unique violations the dialect did not translate.
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 || limit > maxLimit {
		return def
	}
	return limit
}
