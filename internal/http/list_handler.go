package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gymflow/console/internal/gymapi"
)

// ListFetcher is a generic function type for fetching paginated data without
// filters. It returns the page of items plus the total count the API reports.
type ListFetcher[T any] func(ctx context.Context, pg pageOpts) ([]T, int, error)

// FilterParser is a function type for parsing URL query parameters into filter data.
// The error allows the handler to show meaningful validation errors for invalid
// filter params.
type FilterParser[F any] func(url.Values) (F, error)

// FilteredFetcher is a function type for fetching data with filters applied.
type FilteredFetcher[T any, F any] func(ctx context.Context, filters F, pg pageOpts) ([]T, int, error)

// DataEnricher is a function type for enriching template data after fetching items.
// It receives the template data builder, items, and filters, and can add custom data.
type DataEnricher[T any, F any] func(builder *TemplateDataBuilder, items []T, filters F)

// ListHandlerOpts contains all options needed for the generic list handler.
// Uses two generic type parameters: T for item type, F for filter type.
type ListHandlerOpts[T any, F any] struct {
	// Handler is the UIHandlers instance for rendering (required)
	Handler *UIHandlers
	// W is the HTTP response writer (required)
	W http.ResponseWriter
	// R is the HTTP request (required)
	R *http.Request
	// Fetcher is the function to fetch paginated data (simple case, no filtering)
	Fetcher ListFetcher[T]
	// FilteredFetcher is the function to fetch data with filters (complex case)
	// Use this OR Fetcher, not both. If both are provided, FilteredFetcher takes precedence.
	FilteredFetcher FilteredFetcher[T, F]
	// FilterParser is an optional function to parse filters from query params
	FilterParser FilterParser[F]
	// EnrichData is an optional function to add custom data to the template after fetching
	EnrichData DataEnricher[T, F]
	// BasePath is the base URL path for pagination links (e.g., "/members", "/payments")
	BasePath string
	// PageMeta contains page metadata for rendering
	PageMeta PageMeta
	// ItemsKey is the template data key for the items (e.g., "Members", "Payments")
	ItemsKey string
	// ErrorMessage is the message to display when data fetching fails
	ErrorMessage string
}

// HandleList is the generic list view handler that eliminates pagination/filtering
// duplication. It handles pagination, filtering, error handling, and template
// rendering consistently.
//
// Usage examples:
//
// Simple list (no filtering):
//
//	HandleList(ListHandlerOpts[gymapi.Payment, struct{}]{
//	    Handler: h,
//	    W:       w,
//	    R:       r,
//	    Fetcher: func(ctx context.Context, pg pageOpts) ([]gymapi.Payment, int, error) {
//	        return h.Payments.ListPayments(ctx, pg.apiPage())
//	    },
//	    BasePath:     "/payments",
//	    PageMeta:     PageMeta{Title: "Payments", CurrentPage: PagePayments},
//	    ItemsKey:     "Payments",
//	    ErrorMessage: "Unable to load payments.",
//	})
//
// With filtering:
//
//	HandleList(ListHandlerOpts[gymapi.Member, gymapi.MemberSearch]{
//	    Handler: h,
//	    W:       w,
//	    R:       r,
//	    FilteredFetcher: func(ctx context.Context, f gymapi.MemberSearch, pg pageOpts) ([]gymapi.Member, int, error) {
//	        return h.Members.SearchMembers(ctx, f, pg.apiPage())
//	    },
//	    FilterParser: parseMemberSearch,
//	    BasePath:     "/members",
//	    PageMeta:     PageMeta{Title: "Members", CurrentPage: PageMembers},
//	    ItemsKey:     "Members",
//	    ErrorMessage: "Unable to load members.",
//	})
func HandleList[T, F any](opts ListHandlerOpts[T, F]) {
	// Defensive nil checks for required dependencies
	if !validateListHandlerDeps(opts) {
		return
	}

	// Parse pagination parameters
	page, pageSize := getPageParams(opts.R.URL.Query())

	// Parse filters if parser is provided
	var filters F
	if opts.FilterParser != nil {
		var filterErr error
		filters, filterErr = opts.FilterParser(opts.R.URL.Query())
		if filterErr != nil {
			opts.renderListError(page, pageSize, "Invalid filter parameters: "+filterErr.Error())
			return
		}
	}

	// Create the appropriate fetcher function
	fetchFunc := createListFetcher(opts, filters)
	if fetchFunc == nil {
		opts.renderListError(page, pageSize, "No data fetcher configured.")
		return
	}

	// Fetch and render data
	pg := pageOpts{Page: page, PageSize: pageSize}
	items, total, err := fetchFunc(opts.R.Context(), pg)
	if err != nil {
		opts.Handler.logger().Error("list fetch failed",
			"path", opts.R.URL.Path, "error", err)
		opts.renderListError(page, pageSize, listErrorMessage(err, opts.ErrorMessage))
		return
	}

	renderListSuccess(listRenderCtx[T, F]{
		Opts:     opts,
		Page:     page,
		PageSize: pageSize,
		Items:    items,
		Total:    total,
		Filters:  filters,
	})
}

// listRenderCtx consolidates parameters for rendering list success.
type listRenderCtx[T any, F any] struct {
	Opts     ListHandlerOpts[T, F]
	Page     int
	PageSize int
	Items    []T
	Total    int
	Filters  F
}

// validateListHandlerDeps checks required dependencies and returns false if any are nil.
func validateListHandlerDeps[T, F any](opts ListHandlerOpts[T, F]) bool {
	if opts.W == nil || opts.R == nil || opts.Handler == nil {
		if opts.W != nil {
			http.Error(opts.W, "Internal configuration error", http.StatusInternalServerError)
		}
		return false
	}
	return true
}

// createListFetcher creates the appropriate fetcher function based on opts configuration.
func createListFetcher[T, F any](opts ListHandlerOpts[T, F], filters F) ListFetcher[T] {
	switch {
	case opts.FilteredFetcher != nil:
		return func(ctx context.Context, pg pageOpts) ([]T, int, error) {
			return opts.FilteredFetcher(ctx, filters, pg)
		}
	case opts.Fetcher != nil:
		return opts.Fetcher
	default:
		return nil
	}
}

// listErrorMessage prefers the API's own message over the generic fallback.
func listErrorMessage(err error, fallback string) string {
	var apiErr *gymapi.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	if fallback != "" {
		return fallback
	}
	return "Unable to load data."
}

// renderListError renders an error page with pagination metadata.
func (lh *ListHandlerOpts[T, F]) renderListError(page, pageSize int, errMsg string) {
	builder := NewTemplateData(lh.R, lh.PageMeta).
		WithPagination(PaginationData{Page: page, PageSize: pageSize, BasePath: lh.BasePath}).
		WithError(errMsg)
	lh.Handler.renderConsolePage(lh.W, lh.R, builder.Build())
}

// renderListSuccess renders the list view with items and pagination.
func renderListSuccess[T, F any](ctx listRenderCtx[T, F]) {
	// Pagination metadata comes from the API's total count
	hasPrev := ctx.Page > 1
	hasNext := ctx.Page*ctx.PageSize < ctx.Total
	var start, end int
	if len(ctx.Items) > 0 {
		offset := (ctx.Page - 1) * ctx.PageSize
		start = offset + 1
		end = offset + len(ctx.Items)
	}

	// Build and render template data
	builder := NewTemplateData(ctx.Opts.R, ctx.Opts.PageMeta).
		WithPagination(PaginationData{
			Page:       ctx.Page,
			PageSize:   ctx.PageSize,
			HasPrev:    hasPrev,
			HasNext:    hasNext,
			StartIndex: start,
			EndIndex:   end,
			TotalCount: ctx.Total,
			BasePath:   ctx.Opts.BasePath,
		}).
		With(ctx.Opts.ItemsKey, ctx.Items)

	// Allow domain-specific data enrichment
	if ctx.Opts.EnrichData != nil {
		ctx.Opts.EnrichData(builder, ctx.Items, ctx.Filters)
	}

	ctx.Opts.Handler.renderConsolePage(ctx.Opts.W, ctx.Opts.R, builder.Build())
}
