package providers

import (
	"strings"

	"podium/internal/util"
)

// ClassifyError maps a raw provider failure onto one of the shared sentinel
// errors so callers can decide whether a retry is worth it. nil stays nil.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "quota"), strings.Contains(e, "credit"), strings.Contains(e, "insufficient_quota"):
		return util.ErrQuotaExhausted
	case strings.Contains(e, "rate"), strings.Contains(e, "429"):
		return util.ErrRateLimited
	case strings.Contains(e, "timeout"), strings.Contains(e, "temporarily"), strings.Contains(e, "unavailable"):
		return util.ErrTransient
	default:
		return err
	}
}
