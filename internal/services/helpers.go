package services

import (
	"errors"
	"sort"

	"spinecrm/internal/common"
)

func isAppError(err error) bool {
	var appErr *common.AppError
	return errors.As(err, &appErr)
}

func checkPage(skip, limit int) error {
	details := map[string]string{}
	if skip < 0 {
		details["skip"] = "must be greater than or equal to 0"
	}
	if limit < 0 {
		details["limit"] = "must be greater than or equal to 0"
	}
	if len(details) > 0 {
		return common.Validation("Invalid pagination parameters", details)
	}
	return nil
}

func changedFields(changes map[string]any) []string {
	fields := make([]string, 0, len(changes))
	for field := range changes {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// uniqueIDs drops repeated ids, keeping first occurrences in order
func uniqueIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
