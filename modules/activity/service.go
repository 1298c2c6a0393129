package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ListActivityRequest is the request for the activity feed.
type ListActivityRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ListActivityResponse is the response for the activity feed.
type ListActivityResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

// ActivityPort defines the interface for reading the feed.
type ActivityPort interface {
	ListActivity(ctx context.Context, limit int) (*ListActivityResponse, error)
}

func (m *ActivityModule) listActivity(_ context.Context, req ListActivityRequest, _ *mono.Msg) (ListActivityResponse, error) {
	entries := m.Entries(req.Limit)
	return ListActivityResponse{Entries: entries, Total: len(entries)}, nil
}

type activityAdapter struct {
	container mono.ServiceContainer
}

// NewActivityAdapter creates an ActivityPort backed by the list-activity service.
func NewActivityAdapter(container mono.ServiceContainer) ActivityPort {
	if container == nil {
		panic("activity adapter requires non-nil ServiceContainer")
	}
	return &activityAdapter{container: container}
}

// ListActivity reads the feed via the list-activity service.
func (a *activityAdapter) ListActivity(ctx context.Context, limit int) (*ListActivityResponse, error) {
	req := ListActivityRequest{Limit: limit}
	var resp ListActivityResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-activity",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-activity service call failed: %w", err)
	}
	return &resp, nil
}
