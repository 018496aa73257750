package gymapi

import (
	"context"
	"fmt"
	"net/http"
)

// MyGym returns the operator's gym profile, or IsNotFound when the
// account has not created one yet.
func (c *Client) MyGym(ctx context.Context) (Gym, error) {
	gyms, _, err := getList[Gym](ctx, c, "/api/members/gyms/", nil)
	if err != nil {
		return Gym{}, err
	}
	if len(gyms) == 0 {
		return Gym{}, &APIError{StatusCode: http.StatusNotFound, Detail: "no gym profile"}
	}
	return gyms[0], nil
}

// CreateGym creates the gym profile.
func (c *Client) CreateGym(ctx context.Context, req GymRequest) (Gym, error) {
	var g Gym
	err := c.post(ctx, "/api/members/gyms/", req, &g)
	return g, err
}

// UpdateGym replaces the gym profile.
func (c *Client) UpdateGym(ctx context.Context, id int, req GymRequest) (Gym, error) {
	var g Gym
	err := c.put(ctx, fmt.Sprintf("/api/members/gyms/%d/", id), req, &g)
	return g, err
}
