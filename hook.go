package crm

import (
	"context"
)

// EnsureLimits clamps the page parameters before they reach the runner: a missing
// or non-positive page becomes 1, a missing page size becomes defaultSize,
// and an oversized one becomes maxSize.
func EnsureLimits(defaultSize, maxSize int) func(next Runner) Runner {
	if defaultSize < 1 {
		panic("defaultSize must be positive")
	}
	if maxSize < defaultSize {
		panic("maxSize must be greater than or equal to defaultSize")
	}
	return func(next Runner) Runner {
		return RunnerFunc(func(ctx context.Context, req *ListRequest) (*ListResponse, error) {
			if req.Page < 1 {
				req.Page = 1
			}
			if req.PageSize < 1 {
				req.PageSize = defaultSize
			}
			if req.PageSize > maxSize {
				req.PageSize = maxSize
			}
			return next.List(ctx, req)
		})
	}
}

// EnsureDefaultOrder fills an unset order field and direction.
func EnsureDefaultOrder(order Order) func(next Runner) Runner {
	return func(next Runner) Runner {
		return RunnerFunc(func(ctx context.Context, req *ListRequest) (*ListResponse, error) {
			if req.OrderBy.Field == "" {
				req.OrderBy.Field = order.Field
			}
			if req.OrderBy.Direction == "" {
				req.OrderBy.Direction = order.Direction
			}
			return next.List(ctx, req)
		})
	}
}

// ClampPage re-runs a request whose page fell past the last page, landing on
// the final page instead of an empty one.
func ClampPage() func(next Runner) Runner {
	return func(next Runner) Runner {
		return RunnerFunc(func(ctx context.Context, req *ListRequest) (*ListResponse, error) {
			rsp, err := next.List(ctx, req)
			if err != nil {
				return nil, err
			}
			if len(rsp.Items) == 0 && rsp.TotalCount > 0 && req.Page > rsp.TotalPages {
				req.Page = rsp.TotalPages
				return next.List(ctx, req)
			}
			return rsp, nil
		})
	}
}
