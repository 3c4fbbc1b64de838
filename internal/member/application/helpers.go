package application

import (
	"errors"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

// findOrNil turns a NotFound lookup into a nil row so the ownership check can
// report it; other errors pass through.
func findOrNil[T any](row *T, err error) (*T, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
