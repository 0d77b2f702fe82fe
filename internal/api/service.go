// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strings"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// MessageRequest is the body of a chat message.
type MessageRequest struct {
	Content string `json:"content"`
}

// MessageResponse is the assistant's reply.
type MessageResponse struct {
	Response string `json:"response"`
}

// TrainingRequest is the body of a start-training call.
type TrainingRequest struct {
	Description string `json:"description"`
}

// TrainingResponse carries the status reported by the service.
type TrainingResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// TYPED CALLS
// =============================================================================

// SendMessage posts content to the message endpoint and returns the reply.
func (c *Client) SendMessage(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyInput
	}
	var resp MessageResponse
	err := c.Call(ctx, c.endpoints.Message, &RequestOptions{
		Method: http.MethodPost,
		Body:   MessageRequest{Content: content},
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}

// ClearHistory asks the service to forget the conversation.
// The response body is ignored.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.Call(ctx, c.endpoints.ClearHistory, &RequestOptions{
		Method: http.MethodPost,
	}, nil)
}

// StartTraining starts a training run described by description and returns
// the status string from the service.
func (c *Client) StartTraining(ctx context.Context, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", ErrEmptyInput
	}
	var resp TrainingResponse
	err := c.Call(ctx, c.endpoints.StartTraining, &RequestOptions{
		Method: http.MethodPost,
		Body:   TrainingRequest{Description: description},
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Status, nil
}

// FetchMetrics returns the metrics series in server order.
func (c *Client) FetchMetrics(ctx context.Context) ([]MetricSample, error) {
	var samples []MetricSample
	if err := c.Call(ctx, c.endpoints.Metrics, nil, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}
