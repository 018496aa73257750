package gymapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Trainer salary types as defined by the remote API.
const (
	SalaryTypeFixed      = "FIXED"
	SalaryTypeCommission = "COMMISSION"
	SalaryTypeMixed      = "MIXED"
)

// ListTrainers returns one page of trainers plus the total count.
func (c *Client) ListTrainers(ctx context.Context, page Page) ([]Trainer, int, error) {
	return getList[Trainer](ctx, c, "/api/members/trainers/", page.query())
}

// GetTrainer fetches a single trainer by id.
func (c *Client) GetTrainer(ctx context.Context, id int) (Trainer, error) {
	var t Trainer
	err := c.get(ctx, fmt.Sprintf("/api/members/trainers/%d/", id), nil, &t)
	return t, err
}

// CreateTrainer creates a trainer and returns the stored record.
func (c *Client) CreateTrainer(ctx context.Context, req TrainerRequest) (Trainer, error) {
	var t Trainer
	err := c.post(ctx, "/api/members/trainers/", req, &t)
	return t, err
}

// UpdateTrainer replaces a trainer record.
func (c *Client) UpdateTrainer(ctx context.Context, id int, req TrainerRequest) (Trainer, error) {
	var t Trainer
	err := c.put(ctx, fmt.Sprintf("/api/members/trainers/%d/", id), req, &t)
	return t, err
}

// DeleteTrainer removes a trainer.
func (c *Client) DeleteTrainer(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/members/trainers/%d/", id))
}

// AllTrainers returns every trainer unfiltered, for select inputs.
func (c *Client) AllTrainers(ctx context.Context) ([]Trainer, error) {
	trainers, _, err := getList[Trainer](ctx, c, "/api/members/trainers/", url.Values{"page_size": {"1000"}})
	return trainers, err
}

// TrainerPayments returns the payout history for one trainer.
func (c *Client) TrainerPayments(ctx context.Context, trainerID int) ([]TrainerPayment, error) {
	q := url.Values{"trainer": {strconv.Itoa(trainerID)}}
	payments, _, err := getList[TrainerPayment](ctx, c, "/api/members/trainer-payments/", q)
	return payments, err
}

// CreateTrainerPayment records a trainer payout.
func (c *Client) CreateTrainerPayment(ctx context.Context, req TrainerPaymentRequest) (TrainerPayment, error) {
	var p TrainerPayment
	err := c.post(ctx, "/api/members/trainer-payments/", req, &p)
	return p, err
}
