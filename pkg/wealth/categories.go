package wealth

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const categorySummaryPath = "/categories/summary"

// categoryService implements the CategoryService interface
type categoryService struct {
	client *Client
}

// Summary retrieves category summaries for an inclusive date range
func (s *categoryService) Summary(ctx context.Context, startDate, endDate time.Time) (*CategorySummaryResponse, error) {
	startDate, endDate = Day(startDate), Day(endDate)
	if endDate.Before(startDate) {
		return nil, &ValidationError{
			Field:   "endDate",
			Message: "must not be before startDate",
			Value:   endDate.Format(DateLayout),
			Err:     ErrInvalidRange,
		}
	}

	params := url.Values{}
	params.Set("start_date", startDate.Format(DateLayout))
	params.Set("end_date", endDate.Format(DateLayout))

	var result CategorySummaryResponse
	if err := s.client.executeREST(ctx, categorySummaryPath, params, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get category summary")
	}

	return result.Normalize(), nil
}
