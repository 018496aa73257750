package gymapi

import (
	"context"
	"fmt"
	"net/url"
)

// ListMembers returns one page of members plus the total count.
func (c *Client) ListMembers(ctx context.Context, page Page) ([]Member, int, error) {
	return getList[Member](ctx, c, "/api/members/", page.query())
}

// SearchMembers filters members by free-text query, plan type and
// status. Empty filter fields are omitted from the request.
func (c *Client) SearchMembers(ctx context.Context, search MemberSearch, page Page) ([]Member, int, error) {
	q := page.query()
	if search.Query != "" {
		q.Set("q", search.Query)
	}
	if search.PlanType != "" {
		q.Set("plan_type", search.PlanType)
	}
	if search.Status != "" {
		q.Set("status", search.Status)
	}
	return getList[Member](ctx, c, "/api/members/search/", q)
}

// GetMember fetches a single member by id.
func (c *Client) GetMember(ctx context.Context, id int) (Member, error) {
	var m Member
	err := c.get(ctx, fmt.Sprintf("/api/members/%d/", id), nil, &m)
	return m, err
}

// CreateMember creates a member and returns the stored record.
func (c *Client) CreateMember(ctx context.Context, req MemberRequest) (Member, error) {
	var m Member
	err := c.post(ctx, "/api/members/", req, &m)
	return m, err
}

// UpdateMember replaces a member record.
func (c *Client) UpdateMember(ctx context.Context, id int, req MemberRequest) (Member, error) {
	var m Member
	err := c.put(ctx, fmt.Sprintf("/api/members/%d/", id), req, &m)
	return m, err
}

// DeleteMember removes a member.
func (c *Client) DeleteMember(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/members/%d/", id))
}

// AllMembers returns every member unfiltered, for select inputs.
func (c *Client) AllMembers(ctx context.Context) ([]Member, error) {
	members, _, err := getList[Member](ctx, c, "/api/members/", url.Values{"page_size": {"1000"}})
	return members, err
}
