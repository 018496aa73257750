package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gymflow/console/internal/gymapi"
)

// parseMemberSearch extracts search filters from the query string.
// Empty filters are left out so the API search endpoint only sees the
// parameters the operator actually set.
func parseMemberSearch(q url.Values) (gymapi.MemberSearch, error) {
	return gymapi.MemberSearch{
		Query:    strings.TrimSpace(q.Get("q")),
		PlanType: strings.ToUpper(strings.TrimSpace(q.Get("plan_type"))),
		Status:   strings.ToUpper(strings.TrimSpace(q.Get("status"))),
	}, nil
}

// Members renders the member list page with search and filters.
func (h *UIHandlers) Members(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[gymapi.Member, gymapi.MemberSearch]{
		Handler: h,
		W:       w,
		R:       r,
		FilteredFetcher: func(ctx context.Context, f gymapi.MemberSearch, pg pageOpts) ([]gymapi.Member, int, error) {
			if f.Query == "" && f.PlanType == "" && f.Status == "" {
				return h.MemberSvc.ListMembers(ctx, pg.apiPage())
			}
			return h.MemberSvc.SearchMembers(ctx, f, pg.apiPage())
		},
		FilterParser: parseMemberSearch,
		EnrichData: func(builder *TemplateDataBuilder, _ []gymapi.Member, f gymapi.MemberSearch) {
			builder.With("Query", f.Query).
				With("PlanTypeFilter", f.PlanType).
				With("StatusFilter", f.Status).
				With("PlanTypes", []string{gymapi.PlanTypeGeneral, gymapi.PlanTypePT}).
				With("Statuses", []string{
					gymapi.MemberStatusActive,
					gymapi.MemberStatusExpired,
					gymapi.MemberStatusFrozen,
				})
		},
		BasePath:     "/members",
		PageMeta:     PageMeta{Title: "GymFlow - Members", PageTitle: "Members", CurrentPage: PageMembers},
		ItemsKey:     "Members",
		ErrorMessage: "Unable to load members.",
	})
}

// MemberDelete handles deleting a member from the UI.
func (h *UIHandlers) MemberDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		Delete:       h.MemberSvc.DeleteMember,
		RedirectPath: "/members",
		SuccessToast: "Member deleted.",
	})
}
