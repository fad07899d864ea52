// Package maatclient talks to the upstream case-management API that owns
// rep orders, hardship reviews and crown court outcome history.
package maatclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	assessmentdomain "github.com/openjustice/contribution-engine/internal/assessment/domain"
	"github.com/openjustice/contribution-engine/internal/config"
	contributiondomain "github.com/openjustice/contribution-engine/internal/contribution/domain"
	contributionruledomain "github.com/openjustice/contribution-engine/internal/contributionrule/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrUpstream = errors.New("maat_api_error")

type Client struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.MAATAPIBaseURL, "/"),
		client:  &http.Client{Timeout: time.Duration(cfg.MAATAPITimeout) * time.Second},
		log:     log.Named("maatclient"),
	}
}

type repOrderPayload struct {
	RepID             int64   `json:"repId"`
	ApplicationStatus string  `json:"applicationStatus"`
	MagsOutcome       *string `json:"magsOutcome"`
	Assessments       []struct {
		Type           string     `json:"type"`
		Result         string     `json:"result"`
		AssessmentDate *time.Time `json:"assessmentDate"`
		NewWorkReason  string     `json:"newWorkReason"`
		Replaced       bool       `json:"replaced"`
	} `json:"assessments"`
}

// GetRepOrder fetches the representation order with its assessment history.
func (c *Client) GetRepOrder(ctx context.Context, repID int64) (*contributiondomain.RepOrder, error) {
	var payload repOrderPayload
	found, err := c.get(ctx, fmt.Sprintf("/api/internal/v1/rep-orders/%d", repID), &payload)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	order := &contributiondomain.RepOrder{
		RepID:             payload.RepID,
		ApplicationStatus: payload.ApplicationStatus,
		MagsOutcome:       payload.MagsOutcome,
	}
	for _, a := range payload.Assessments {
		order.Assessments = append(order.Assessments, assessmentdomain.Assessment{
			Type:           assessmentdomain.Type(a.Type),
			Result:         assessmentdomain.Result(a.Result),
			AssessmentDate: a.AssessmentDate,
			NewWorkReason:  assessmentdomain.NewWorkReason(a.NewWorkReason),
			Replaced:       a.Replaced,
		})
	}
	return order, nil
}

// HardshipDetailAmount fetches the hardship-review amount for one detail type.
func (c *Client) HardshipDetailAmount(ctx context.Context, detailType string, repID int64) (decimal.Decimal, error) {
	var payload struct {
		Amount decimal.Decimal `json:"amount"`
	}
	found, err := c.get(ctx, fmt.Sprintf("/api/internal/v1/hardship/%d/details/%s/amount", repID, detailType), &payload)
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		return decimal.Zero, nil
	}
	return payload.Amount, nil
}

// CrownCourtOutcomes fetches the crown court outcome history for a rep order.
func (c *Client) CrownCourtOutcomes(ctx context.Context, repID int64) ([]contributiondomain.CCOutcomeEntry, error) {
	var payload []struct {
		ID      int64  `json:"id"`
		Outcome string `json:"outcome"`
	}
	found, err := c.get(ctx, fmt.Sprintf("/api/internal/v1/rep-orders/%d/cc-outcomes", repID), &payload)
	if err != nil || !found {
		return nil, err
	}

	entries := make([]contributiondomain.CCOutcomeEntry, 0, len(payload))
	for _, e := range payload {
		entries = append(entries, contributiondomain.CCOutcomeEntry{ID: e.ID, Outcome: e.Outcome})
	}
	return entries, nil
}

// get issues a GET and decodes a 200 body. A 404 is reported as not found,
// anything else non-2xx as an upstream failure.
func (c *Client) get(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.log.Warn("upstream call failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return false, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return true, nil
}

func asRepOrderService(c *Client) contributiondomain.RepOrderService { return c }

func asOutcomeHistoryService(c *Client) contributiondomain.OutcomeHistoryService { return c }

func asHardshipService(c *Client) contributionruledomain.HardshipService { return c }

// Module wires the client behind its collaborator interfaces.
var Module = fx.Module("maatclient",
	fx.Provide(
		NewClient,
		asRepOrderService,
		asOutcomeHistoryService,
		asHardshipService,
	),
)
