package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gymflow/console/internal/forms"
	"github.com/gymflow/console/internal/gymapi"
)

func newTestRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return tr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMembersAPI implements MembersAPI with overridable function fields.
type fakeMembersAPI struct {
	members []gymapi.Member
	total   int
	err     error

	searchFn func(ctx context.Context, search gymapi.MemberSearch, page gymapi.Page) ([]gymapi.Member, int, error)
	createFn func(ctx context.Context, req gymapi.MemberRequest) (gymapi.Member, error)
	updateFn func(ctx context.Context, id int, req gymapi.MemberRequest) (gymapi.Member, error)
	deleteFn func(ctx context.Context, id int) error
}

func (f *fakeMembersAPI) ListMembers(_ context.Context, _ gymapi.Page) ([]gymapi.Member, int, error) {
	return f.members, f.total, f.err
}

func (f *fakeMembersAPI) SearchMembers(ctx context.Context, search gymapi.MemberSearch, page gymapi.Page) ([]gymapi.Member, int, error) {
	if f.searchFn != nil {
		return f.searchFn(ctx, search, page)
	}
	return f.members, f.total, f.err
}

func (f *fakeMembersAPI) GetMember(_ context.Context, id int) (gymapi.Member, error) {
	if f.err != nil {
		return gymapi.Member{}, f.err
	}
	for _, m := range f.members {
		if m.ID == id {
			return m, nil
		}
	}
	return gymapi.Member{}, &gymapi.APIError{StatusCode: http.StatusNotFound, Detail: "Not found."}
}

func (f *fakeMembersAPI) CreateMember(ctx context.Context, req gymapi.MemberRequest) (gymapi.Member, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return gymapi.Member{ID: 1, Name: req.Name}, f.err
}

func (f *fakeMembersAPI) UpdateMember(ctx context.Context, id int, req gymapi.MemberRequest) (gymapi.Member, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return gymapi.Member{ID: id, Name: req.Name}, f.err
}

func (f *fakeMembersAPI) DeleteMember(ctx context.Context, id int) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return f.err
}

func (f *fakeMembersAPI) AllMembers(_ context.Context) ([]gymapi.Member, error) {
	return f.members, f.err
}

// fakePaymentsAPI implements PaymentsAPI.
type fakePaymentsAPI struct {
	payments []gymapi.Payment
	history  []gymapi.Payment
	total    int
	dues     gymapi.OutstandingDues
	err      error

	createFn  func(ctx context.Context, req gymapi.PaymentRequest) (gymapi.Payment, error)
	historyFn func(ctx context.Context, memberID int) ([]gymapi.Payment, error)
	duesFn    func(ctx context.Context, memberID int) (gymapi.OutstandingDues, error)
}

func (f *fakePaymentsAPI) ListPayments(_ context.Context, _ gymapi.Page) ([]gymapi.Payment, int, error) {
	return f.payments, f.total, f.err
}

func (f *fakePaymentsAPI) CreatePayment(ctx context.Context, req gymapi.PaymentRequest) (gymapi.Payment, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return gymapi.Payment{ID: 1, Member: req.Member, Amount: req.Amount}, f.err
}

func (f *fakePaymentsAPI) MemberPayments(ctx context.Context, memberID int) ([]gymapi.Payment, error) {
	if f.historyFn != nil {
		return f.historyFn(ctx, memberID)
	}
	return f.history, nil
}

func (f *fakePaymentsAPI) OutstandingDues(ctx context.Context, memberID int) (gymapi.OutstandingDues, error) {
	if f.duesFn != nil {
		return f.duesFn(ctx, memberID)
	}
	return f.dues, f.err
}

// fakeTrainersAPI implements TrainersAPI.
type fakeTrainersAPI struct {
	trainers []gymapi.Trainer
	total    int
	history  []gymapi.TrainerPayment
	err      error

	historyFn func(ctx context.Context, trainerID int) ([]gymapi.TrainerPayment, error)
	createFn  func(ctx context.Context, req gymapi.TrainerRequest) (gymapi.Trainer, error)
	payoutFn  func(ctx context.Context, req gymapi.TrainerPaymentRequest) (gymapi.TrainerPayment, error)
}

func (f *fakeTrainersAPI) ListTrainers(_ context.Context, _ gymapi.Page) ([]gymapi.Trainer, int, error) {
	return f.trainers, f.total, f.err
}

func (f *fakeTrainersAPI) GetTrainer(_ context.Context, id int) (gymapi.Trainer, error) {
	if f.err != nil {
		return gymapi.Trainer{}, f.err
	}
	for _, tr := range f.trainers {
		if tr.ID == id {
			return tr, nil
		}
	}
	return gymapi.Trainer{}, &gymapi.APIError{StatusCode: http.StatusNotFound, Detail: "Not found."}
}

func (f *fakeTrainersAPI) CreateTrainer(ctx context.Context, req gymapi.TrainerRequest) (gymapi.Trainer, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return gymapi.Trainer{ID: 1, Name: req.Name}, f.err
}

func (f *fakeTrainersAPI) UpdateTrainer(_ context.Context, id int, req gymapi.TrainerRequest) (gymapi.Trainer, error) {
	return gymapi.Trainer{ID: id, Name: req.Name}, f.err
}

func (f *fakeTrainersAPI) DeleteTrainer(_ context.Context, _ int) error {
	return f.err
}

func (f *fakeTrainersAPI) AllTrainers(_ context.Context) ([]gymapi.Trainer, error) {
	return f.trainers, f.err
}

func (f *fakeTrainersAPI) TrainerPayments(ctx context.Context, trainerID int) ([]gymapi.TrainerPayment, error) {
	if f.historyFn != nil {
		return f.historyFn(ctx, trainerID)
	}
	return f.history, f.err
}

func (f *fakeTrainersAPI) CreateTrainerPayment(ctx context.Context, req gymapi.TrainerPaymentRequest) (gymapi.TrainerPayment, error) {
	if f.payoutFn != nil {
		return f.payoutFn(ctx, req)
	}
	return gymapi.TrainerPayment{ID: 1, Trainer: req.Trainer, Amount: req.Amount}, f.err
}

// fakeGymAPI implements GymAPI.
type fakeGymAPI struct {
	gym gymapi.Gym
	err error
}

func (f *fakeGymAPI) MyGym(_ context.Context) (gymapi.Gym, error) {
	return f.gym, f.err
}

func (f *fakeGymAPI) CreateGym(_ context.Context, req gymapi.GymRequest) (gymapi.Gym, error) {
	return gymapi.Gym{ID: 1, Name: req.Name}, f.err
}

func (f *fakeGymAPI) UpdateGym(_ context.Context, id int, req gymapi.GymRequest) (gymapi.Gym, error) {
	return gymapi.Gym{ID: id, Name: req.Name}, f.err
}

// fakeDashboardAPI implements DashboardAPI.
type fakeDashboardAPI struct {
	stats gymapi.DashboardStats
	err   error
}

func (f *fakeDashboardAPI) DashboardStats(_ context.Context) (gymapi.DashboardStats, error) {
	return f.stats, f.err
}

// testHandlerDeps bundles the fakes a UIHandlers test needs.
type testHandlerDeps struct {
	members   *fakeMembersAPI
	payments  *fakePaymentsAPI
	trainers  *fakeTrainersAPI
	gym       *fakeGymAPI
	dashboard *fakeDashboardAPI
}

func newTestUIHandlers(t *testing.T, deps testHandlerDeps) *UIHandlers {
	t.Helper()
	if deps.members == nil {
		deps.members = &fakeMembersAPI{}
	}
	if deps.payments == nil {
		deps.payments = &fakePaymentsAPI{}
	}
	if deps.trainers == nil {
		deps.trainers = &fakeTrainersAPI{}
	}
	if deps.gym == nil {
		deps.gym = &fakeGymAPI{}
	}
	if deps.dashboard == nil {
		deps.dashboard = &fakeDashboardAPI{}
	}
	logger := discardLogger()
	return &UIHandlers{
		T:                 newTestRenderer(t),
		MemberSvc:         deps.members,
		PaymentSvc:        deps.payments,
		TrainerSvc:        deps.trainers,
		GymSvc:            deps.gym,
		DashboardSvc:      deps.dashboard,
		DuesSelections:    forms.NewRegistry(deps.payments.OutstandingDues, logger),
		TrainerSelections: forms.NewRegistry(deps.trainers.TrainerPayments, logger),
		Logger:            logger,
	}
}

func doRequest(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, r)
	return w
}
