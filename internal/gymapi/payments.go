package gymapi

import (
	"context"
	"net/url"
	"strconv"
)

// ListPayments returns one page of payments plus the total count.
func (c *Client) ListPayments(ctx context.Context, page Page) ([]Payment, int, error) {
	return getList[Payment](ctx, c, "/api/payments/", page.query())
}

// CreatePayment records a member payment and returns the stored record.
func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (Payment, error) {
	var p Payment
	err := c.post(ctx, "/api/payments/", req, &p)
	return p, err
}

// MemberPayments returns the payment history for one member.
func (c *Client) MemberPayments(ctx context.Context, memberID int) ([]Payment, error) {
	q := url.Values{"member_id": {strconv.Itoa(memberID)}}
	payments, _, err := getList[Payment](ctx, c, "/api/payments/member_payments/", q)
	return payments, err
}

// OutstandingDues fetches the server-computed dues summary for one
// member. The server owns the arithmetic; the console displays it.
func (c *Client) OutstandingDues(ctx context.Context, memberID int) (OutstandingDues, error) {
	q := url.Values{"member_id": {strconv.Itoa(memberID)}}
	var dues OutstandingDues
	err := c.get(ctx, "/api/payments/outstanding_dues/", q, &dues)
	return dues, err
}
