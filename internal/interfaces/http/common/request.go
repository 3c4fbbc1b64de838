package common

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/validation"
)

// MaxRequestBody limits JSON request bodies.
const MaxRequestBody = 1 << 20

// DecodeJSON reads one JSON object into dst and runs its validate tags.
func DecodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Validation("リクエストボディが空です")
		}
		return domain.Validation("リクエストの形式が不正です")
	}
	return validation.Struct(dst)
}

// ParseID reads a positive numeric path parameter.
func ParseID(r *http.Request, name string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, domain.Validation("IDの形式が不正です")
	}
	return uint(id), nil
}

// ParsePositiveInt parses positive integers with fallback.
func ParsePositiveInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback, false
	}
	return parsed, true
}

// ParsePaging reads page and limit; out-of-range values are clamped.
func ParsePaging(r *http.Request) domain.Paging {
	query := r.URL.Query()
	page, _ := ParsePositiveInt(query.Get("page"), 1)
	limit, _ := ParsePositiveInt(query.Get("limit"), domain.DefaultPageLimit)
	return domain.Paging{Page: page, Limit: limit}.Normalize()
}

// ParseOptionalInt reads a non-negative integer query parameter.
func ParseOptionalInt(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return nil, domain.Validation(name + "の形式が不正です")
	}
	return &value, nil
}

// ParseOptionalUint reads an id-like query parameter.
func ParseOptionalUint(r *http.Request, name string) (*uint, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return nil, domain.Validation(name + "の形式が不正です")
	}
	id := uint(value)
	return &id, nil
}

// ParseOptionalBool accepts true/false only.
func ParseOptionalBool(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.Validation(name + "はtrueまたはfalseで指定してください")
	}
	return &value, nil
}

// ParseIDList reads comma separated ids, also accepting the key repeated
// (tagIds=1,2 or tagIds=1&tagIds=2).
func ParseIDList(r *http.Request, name string) ([]uint, error) {
	var ids []uint
	for _, value := range r.URL.Query()[name] {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil || id == 0 {
				return nil, domain.Validation(name + "の形式が不正です")
			}
			ids = append(ids, uint(id))
		}
	}
	return domain.UniqueIDs(ids), nil
}

// ParseInquiryStatus reads an optional status filter.
func ParseInquiryStatus(r *http.Request) (domain.InquiryStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return "", nil
	}
	return domain.ParseInquiryStatus(raw)
}

// ParseCaseStatus reads an optional status filter.
func ParseCaseStatus(r *http.Request) (domain.CaseStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return "", nil
	}
	return domain.ParseCaseStatus(raw)
}
