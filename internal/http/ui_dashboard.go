package httpx

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/gymflow/console/internal/gymapi"
)

// Home renders the dashboard at the console root.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFound(w, r)
		return
	}
	h.DashboardHome(w, r)
}

// DashboardHome renders the dashboard page. Stats and the gym profile
// come from separate endpoints and are fetched concurrently; a missing
// gym profile is not an error, it just surfaces the setup prompt.
func (h *UIHandlers) DashboardHome(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "GymFlow - Dashboard",
			PageTitle:   "Dashboard",
			CurrentPage: PageDashboard,
		},
		Fetch: func(ctx context.Context, data map[string]any) error {
			var (
				stats gymapi.DashboardStats
				gym   gymapi.Gym
				noGym bool
			)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				stats, err = h.DashboardSvc.DashboardStats(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				gym, err = h.GymSvc.MyGym(gctx)
				if apiErr, ok := gymapi.AsAPIError(err); ok && apiErr.IsNotFound() {
					noGym = true
					return nil
				}
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			data["Stats"] = stats
			data["HasGym"] = !noGym
			if !noGym {
				data["Gym"] = gym
				data["GymName"] = gym.Name
			}
			return nil
		},
	})
}
