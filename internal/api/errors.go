package api

import (
	"errors"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"

	"github.com/altinukshini/jobs-tui/internal/model"
)

// connectionError wraps any transport or HTTP failure as a ConnectionError,
// keeping the status code when go-gh reports one.
func connectionError(op string, err error) *model.ConnectionError {
	cerr := &model.ConnectionError{Op: op, Err: err}
	var httpErr *ghAPI.HTTPError
	if errors.As(err, &httpErr) {
		cerr.Status = httpErr.StatusCode
	}
	return cerr
}
