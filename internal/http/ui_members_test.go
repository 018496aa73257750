package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymflow/console/internal/gymapi"
)

func TestMembersListRenders(t *testing.T) {
	h := newTestUIHandlers(t, testHandlerDeps{
		members: &fakeMembersAPI{
			members: []gymapi.Member{
				{ID: 1, Name: "Asha Rao", Phone: "9876543210", PlanType: gymapi.PlanTypeGeneral, Status: gymapi.MemberStatusActive},
				{ID: 2, Name: "Vikram Shah", PlanType: gymapi.PlanTypePT, Status: gymapi.MemberStatusExpired},
			},
			total: 2,
		},
	})

	w := doRequest(h.Members, httptest.NewRequest(http.MethodGet, "/members", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Asha Rao")
	assert.Contains(t, body, "Vikram Shah")
	assert.Contains(t, body, gymapi.MemberStatusActive)
	assert.Contains(t, body, "/members/1/edit")
}

func TestMembersListEmptyState(t *testing.T) {
	h := newTestUIHandlers(t, testHandlerDeps{})

	w := doRequest(h.Members, httptest.NewRequest(http.MethodGet, "/members", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No members found.")
}

func TestMembersListRoutesFiltersToSearch(t *testing.T) {
	var gotSearch gymapi.MemberSearch
	members := &fakeMembersAPI{}
	members.searchFn = func(_ context.Context, search gymapi.MemberSearch, _ gymapi.Page) ([]gymapi.Member, int, error) {
		gotSearch = search
		return []gymapi.Member{{ID: 3, Name: "Meera Joshi", Status: gymapi.MemberStatusActive}}, 1, nil
	}
	h := newTestUIHandlers(t, testHandlerDeps{members: members})

	w := doRequest(h.Members, httptest.NewRequest(http.MethodGet, "/members?q=meera&plan_type=pt&status=active", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, gymapi.MemberSearch{Query: "meera", PlanType: "PT", Status: "ACTIVE"}, gotSearch)
	assert.Contains(t, w.Body.String(), "Meera Joshi")
}

func TestMembersListWithoutFiltersSkipsSearch(t *testing.T) {
	members := &fakeMembersAPI{members: []gymapi.Member{{ID: 1, Name: "Asha Rao"}}, total: 1}
	members.searchFn = func(context.Context, gymapi.MemberSearch, gymapi.Page) ([]gymapi.Member, int, error) {
		t.Fatal("search endpoint should not be used without filters")
		return nil, 0, nil
	}
	h := newTestUIHandlers(t, testHandlerDeps{members: members})

	w := doRequest(h.Members, httptest.NewRequest(http.MethodGet, "/members", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Asha Rao")
}

func TestMembersListSurfacesAPIError(t *testing.T) {
	h := newTestUIHandlers(t, testHandlerDeps{
		members: &fakeMembersAPI{err: &gymapi.APIError{StatusCode: http.StatusServiceUnavailable, Detail: "Service temporarily unavailable."}},
	})

	w := doRequest(h.Members, httptest.NewRequest(http.MethodGet, "/members", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Service temporarily unavailable.")
}

func TestMembersListPagination(t *testing.T) {
	members := make([]gymapi.Member, 10)
	for i := range members {
		members[i] = gymapi.Member{ID: i + 11, Name: "Member", Status: gymapi.MemberStatusActive}
	}
	h := newTestUIHandlers(t, testHandlerDeps{
		members: &fakeMembersAPI{members: members, total: 35},
	})

	w := doRequest(h.Members, httptest.NewRequest(http.MethodGet, "/members?page=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "11")
	assert.Contains(t, body, "20")
	assert.Contains(t, body, "35")
	assert.Contains(t, body, "page=1")
	assert.Contains(t, body, "page=3")
}

func editRequest(path, id string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	r.SetPathValue("id", id)
	return r
}

func TestMemberEditShowsPaymentHistory(t *testing.T) {
	h := newTestUIHandlers(t, testHandlerDeps{
		members: &fakeMembersAPI{members: []gymapi.Member{
			{ID: 4, Name: "Asha Rao", PlanType: gymapi.PlanTypeGeneral, Status: gymapi.MemberStatusActive},
		}},
		payments: &fakePaymentsAPI{history: []gymapi.Payment{
			{ID: 21, Member: 4, Amount: 1200, PaymentMode: "UPI", PaymentDate: "2026-08-01", Notes: "August dues"},
			{ID: 22, Member: 4, Amount: 750.5, PaymentMode: "CASH", PaymentDate: "2026-07-02"},
		}},
	})

	w := doRequest(h.MemberEdit, editRequest("/members/4/edit", "4"))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Payment History")
	assert.Contains(t, body, "Aug 1, 2026")
	assert.Contains(t, body, "1,200.00")
	assert.Contains(t, body, "750.50")
	assert.Contains(t, body, "August dues")
}

func TestMemberEditEmptyPaymentHistory(t *testing.T) {
	h := newTestUIHandlers(t, testHandlerDeps{
		members: &fakeMembersAPI{members: []gymapi.Member{{ID: 4, Name: "Asha Rao", Status: gymapi.MemberStatusActive}}},
	})

	w := doRequest(h.MemberEdit, editRequest("/members/4/edit", "4"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No payments recorded for this member yet.")
}

func TestMemberEditToleratesHistoryError(t *testing.T) {
	payments := &fakePaymentsAPI{}
	payments.historyFn = func(context.Context, int) ([]gymapi.Payment, error) {
		return nil, &gymapi.APIError{StatusCode: http.StatusBadGateway}
	}
	h := newTestUIHandlers(t, testHandlerDeps{
		members:  &fakeMembersAPI{members: []gymapi.Member{{ID: 4, Name: "Asha Rao", Status: gymapi.MemberStatusActive}}},
		payments: payments,
	})

	w := doRequest(h.MemberEdit, editRequest("/members/4/edit", "4"))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Asha Rao")
	assert.Contains(t, body, "No payments recorded for this member yet.")
}

func deleteRequest(path, id string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, nil)
	r.SetPathValue("id", id)
	return r
}

func TestMemberDeleteSuccess(t *testing.T) {
	var deleted int
	members := &fakeMembersAPI{}
	members.deleteFn = func(_ context.Context, id int) error {
		deleted = id
		return nil
	}
	h := newTestUIHandlers(t, testHandlerDeps{members: members})

	w := doRequest(h.MemberDelete, deleteRequest("/members/5/delete", "5"))

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/members", w.Header().Get("Hx-Redirect"))
	assert.Contains(t, w.Header().Get("Hx-Trigger"), "Member deleted.")
	assert.Equal(t, 5, deleted)
}

func TestMemberDeleteToleratesAlreadyGone(t *testing.T) {
	members := &fakeMembersAPI{err: &gymapi.APIError{StatusCode: http.StatusNotFound}}
	h := newTestUIHandlers(t, testHandlerDeps{members: members})

	w := doRequest(h.MemberDelete, deleteRequest("/members/5/delete", "5"))

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/members", w.Header().Get("Hx-Redirect"))
}

func TestMemberDeleteFailure(t *testing.T) {
	members := &fakeMembersAPI{err: &gymapi.APIError{StatusCode: http.StatusInternalServerError}}
	h := newTestUIHandlers(t, testHandlerDeps{members: members})

	w := doRequest(h.MemberDelete, deleteRequest("/members/5/delete", "5"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Hx-Redirect"))
}

func TestMemberDeleteInvalidID(t *testing.T) {
	h := newTestUIHandlers(t, testHandlerDeps{})

	w := doRequest(h.MemberDelete, deleteRequest("/members/abc/delete", "abc"))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
