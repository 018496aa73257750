package gymapi

import "context"

// DashboardStats fetches the aggregate dashboard figures.
func (c *Client) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	err := c.get(ctx, "/api/dashboard/stats/", nil, &stats)
	return stats, err
}
