package crm

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hcviolins/crm/internal/hook"
)

// Source supplies the two collections the pipeline consumes. Both are read
// in full; filtering, sorting, and paging all happen in memory.
type Source interface {
	Clients(ctx context.Context) ([]*Client, error)
	InstrumentOwners(ctx context.Context) (InstrumentSet, error)
}

// ListRequest is one evaluation of the (search, filter, sort, page) pipeline.
type ListRequest struct {
	Search   string      `json:"search"`
	Filters  FilterState `json:"filters"`
	OrderBy  Order       `json:"orderBy"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

// ListResponse is the visible page plus the filter option lists, unless the
// caller skipped them via WithSkip.
type ListResponse struct {
	Items       []*Client      `json:"items"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	TotalCount  int            `json:"totalCount"`
	Options     *FilterOptions `json:"options,omitempty"`
}

// List is the pure pipeline: filter, sort, then page. It is total over its
// inputs and idempotent for identical inputs.
func List(clients []*Client, owned InstrumentSet, req *ListRequest) *Page[*Client] {
	matched := FilterClients(clients, req.Search, req.Filters, owned)
	sorted := SortClients(matched, req.OrderBy)
	return Paginate(sorted, req.Page, req.PageSize)
}

// Runner evaluates list requests against a Source.
type Runner interface {
	List(ctx context.Context, req *ListRequest) (*ListResponse, error)
}

type RunnerFunc func(ctx context.Context, req *ListRequest) (*ListResponse, error)

func (f RunnerFunc) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	return f(ctx, req)
}

// New builds a Runner over a Source. Hooks wrap the runner in order, first
// one outermost; see EnsureLimits and EnsureDefaultOrder.
func New(source Source, hooks ...func(next Runner) Runner) Runner {
	if source == nil {
		panic("source must be set")
	}

	var r Runner = RunnerFunc(func(ctx context.Context, req *ListRequest) (*ListResponse, error) {
		if req.Page < 1 {
			return nil, errors.New("page must be a positive integer")
		}
		if req.PageSize < 1 {
			return nil, errors.New("pageSize must be a positive integer")
		}

		clients, err := source.Clients(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "load clients")
		}

		var owned InstrumentSet
		// The ownership filter only binds with exactly one sentinel selected.
		if len(req.Filters.HasInstruments) == 1 {
			owned, err = source.InstrumentOwners(ctx)
			if err != nil {
				return nil, errors.Wrap(err, "load instrument owners")
			}
		}

		page := List(clients, owned, req)

		rsp := &ListResponse{
			Items:       page.Items,
			CurrentPage: page.CurrentPage,
			TotalPages:  page.TotalPages,
			TotalCount:  page.TotalCount,
		}
		if !GetSkip(ctx).Options {
			rsp.Options = Options(clients)
		}
		return rsp, nil
	})

	h := hook.Chain(hooks...)
	if h != nil {
		r = h(r)
	}
	return r
}
