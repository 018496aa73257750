package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gymflow/console/internal/gymapi"
)

// Trainers renders the trainer list page.
func (h *UIHandlers) Trainers(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[gymapi.Trainer, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: func(ctx context.Context, pg pageOpts) ([]gymapi.Trainer, int, error) {
			return h.TrainerSvc.ListTrainers(ctx, pg.apiPage())
		},
		BasePath:     "/trainers",
		PageMeta:     PageMeta{Title: "GymFlow - Trainers", PageTitle: "Trainers", CurrentPage: PageTrainers},
		ItemsKey:     "Trainers",
		ErrorMessage: "Unable to load trainers.",
	})
}

// TrainerDelete handles deleting a trainer from the UI.
func (h *UIHandlers) TrainerDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		Delete:       h.TrainerSvc.DeleteTrainer,
		RedirectPath: "/trainers",
		SuccessToast: "Trainer deleted.",
	})
}

// TrainerPayments renders the trainer payout page: a trainer select, a
// payout history panel for the selected trainer, and a payout form.
// GET /trainers/payments.
func (h *UIHandlers) TrainerPayments(w http.ResponseWriter, r *http.Request) {
	h.trainerHistoryController(r).Clear()
	h.renderTrainerPaymentForm(w, r, map[string]any{
		"Mode": FormModeCreate,
	})
}

// TrainerHistory is the htmx fragment endpoint behind the trainer
// select. Changing the selection fetches that trainer's payout history;
// late responses for superseded selections never clobber the panel.
// GET /trainers/payments/history?trainer=<id>.
func (h *UIHandlers) TrainerHistory(w http.ResponseWriter, r *http.Request) {
	ctrl := h.trainerHistoryController(r)

	raw := strings.TrimSpace(r.URL.Query().Get("trainer"))
	if raw == "" {
		ctrl.Clear()
		h.renderFragment(w, r, "trainer-history", ctrl.Snapshot())
		return
	}

	trainerID, err := strconv.Atoi(raw)
	if err != nil || trainerID <= 0 {
		h.renderFragment(w, r, "trainer-history", ctrl.Snapshot())
		return
	}

	state := ctrl.Select(r.Context(), trainerID)
	h.renderFragment(w, r, "trainer-history", state)
}
