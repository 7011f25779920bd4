package api

import (
	"context"

	"github.com/altinukshini/jobs-tui/internal/filter"
	"github.com/altinukshini/jobs-tui/internal/model"
)

// SearchJobs runs a job search. A successful response with no rows yields
// an empty, non-nil slice.
func (c *Client) SearchJobs(ctx context.Context, q filter.Query) ([]model.Job, error) {
	var resp model.JobsResponse
	if err := c.Get(ctx, "search jobs", "jobs/search"+q.QueryString(), &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []model.Job{}, nil
	}
	return resp.Data, nil
}
