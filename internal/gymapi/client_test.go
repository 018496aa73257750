package gymapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Parallel()
	_, err := NewClient(Config{BaseURL: "  "})
	require.Error(t, err)
}

func TestLoginSkipsAuthHeader(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access":"acc-1","refresh":"ref-1"}`))
	}))
	client.SetAuthToken("stale-token")

	pair, err := client.Login(context.Background(), "owner", "secret")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", pair.Access)
	assert.Equal(t, "ref-1", pair.Refresh)
}

func TestLoginBadCredentials(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
	}))

	_, err := client.Login(context.Background(), "owner", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsUnauthorized())
	assert.Equal(t, "No active account found with the given credentials", apiErr.Message())
}

func TestBearerHeaderAttached(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_members":3}`))
	}))
	client.SetAuthToken("tok-123")

	stats, err := client.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalMembers)
}

func TestClearAuthTokenRemovesHeader(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	client.SetAuthToken("tok-123")
	client.ClearAuthToken()
	assert.Empty(t, client.AuthToken())

	_, err := client.DashboardStats(context.Background())
	require.NoError(t, err)
}

func TestListMembersPaginatedEnvelope(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("page_size"))
		_, _ = w.Write([]byte(`{"count":51,"results":[{"id":26,"name":"Asha"},{"id":27,"name":"Ben"}]}`))
	}))

	members, total, err := client.ListMembers(context.Background(), Page{Number: 2, Size: 25})
	require.NoError(t, err)
	assert.Equal(t, 51, total)
	require.Len(t, members, 2)
	assert.Equal(t, "Asha", members[0].Name)
}

func TestListMembersBareArray(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Asha"}]`))
	}))

	members, total, err := client.ListMembers(context.Background(), Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, members, 1)
	assert.Equal(t, 1, members[0].ID)
}

func TestSearchMembersOmitsEmptyFilters(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/members/search/", r.URL.Path)
		assert.Equal(t, "asha", r.URL.Query().Get("q"))
		assert.Equal(t, PlanTypePT, r.URL.Query().Get("plan_type"))
		assert.False(t, r.URL.Query().Has("status"))
		_, _ = w.Write([]byte(`[]`))
	}))

	_, _, err := client.SearchMembers(context.Background(), MemberSearch{Query: "asha", PlanType: PlanTypePT}, Page{})
	require.NoError(t, err)
}

func TestCreateMemberValidationError(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"phone":["This field is required."],"end_date":["End date must be after start date."]}`))
	}))

	_, err := client.CreateMember(context.Background(), MemberRequest{Name: "Asha"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t,
		"end_date: End date must be after start date.; phone: This field is required.",
		apiErr.JoinedFieldErrors())
}

func TestOutstandingDues(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments/outstanding_dues/", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("member_id"))
		_, _ = w.Write([]byte(`{"member_id":7,"member_name":"Asha","plan_price":1200.0,"total_payments":750.5,"outstanding_dues":449.5}`))
	}))

	dues, err := client.OutstandingDues(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, dues.MemberID)
	assert.InDelta(t, 449.5, dues.OutstandingDues, 0.001)
}

func TestTrainerRoutesUnderMembersPrefix(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/members/trainers/", r.URL.Path)
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":3,"name":"Ravi"}]}`))
	}))

	trainers, total, err := client.ListTrainers(context.Background(), Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, trainers, 1)
	assert.Equal(t, "Ravi", trainers[0].Name)
}

func TestTrainerPaymentsFilterParam(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/members/trainer-payments/", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("trainer"))
		assert.False(t, r.URL.Query().Has("trainer_id"))
		_, _ = w.Write([]byte(`[{"id":10,"trainer":3,"amount":5000.0}]`))
	}))

	payments, err := client.TrainerPayments(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 3, payments[0].Trainer)
}

func TestMemberPaymentsRoute(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments/member_payments/", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("member_id"))
		_, _ = w.Write([]byte(`[{"id":21,"member":7,"amount":750.5}]`))
	}))

	payments, err := client.MemberPayments(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 21, payments[0].ID)
}

func TestDeleteMember(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/members/9/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.DeleteMember(context.Background(), 9))
}

func TestMyGymEmptyList(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":0,"results":[]}`))
	}))

	_, err := client.MyGym(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestUnparseableErrorBody(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))

	_, err := client.DashboardStats(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message())
}
