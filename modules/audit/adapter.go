package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ActivityPort reads the activity trail.
type ActivityPort interface {
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

var _ ActivityPort = (*AuditAdapter)(nil)
var _ ActivityPort = trailPort{}

// AuditAdapter implements ActivityPort using the service container.
type AuditAdapter struct {
	container mono.ServiceContainer
}

// NewAuditAdapter creates a new AuditAdapter.
func NewAuditAdapter(container mono.ServiceContainer) *AuditAdapter {
	return &AuditAdapter{container: container}
}

// Recent returns up to limit entries, newest first.
func (a *AuditAdapter) Recent(ctx context.Context, limit int) ([]Entry, error) {
	req := RecentActivityRequest{Limit: limit}
	var resp RecentActivityResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "recent-activity", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("recent-activity request failed: %w", err)
	}
	if resp.Entries == nil {
		resp.Entries = []Entry{}
	}
	return resp.Entries, nil
}

// trailPort serves a Trail directly, bypassing the service container.
type trailPort struct {
	trail *Trail
}

func (t *Trail) port() trailPort { return trailPort{trail: t} }

// Port returns an ActivityPort served straight from the trail.
func (t *Trail) Port() ActivityPort { return t.port() }

// Recent returns up to limit entries, newest first.
func (p trailPort) Recent(_ context.Context, limit int) ([]Entry, error) {
	return p.trail.Recent(clampLimit(limit)), nil
}
