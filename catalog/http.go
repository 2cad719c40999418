// Copyright 2026 Strideworks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/strideworks/exvec/core"
)

// Config holds configuration for the HTTP catalog client.
type Config struct {
	// URL is the exercise endpoint. The client POSTs {"id": N} to it.
	URL string

	// Authorization is sent verbatim in the authorization header.
	Authorization string

	// Timeout is applied per request.
	// Default: 30s
	Timeout time.Duration
}

// HTTPClient implements Client against a Trainerize-style exercise API.
type HTTPClient struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a catalog client for the configured endpoint.
func NewHTTPClient(config Config) (*HTTPClient, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("catalog config: URL is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &HTTPClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: slog.Default().With("component", "catalog"),
	}, nil
}

// exerciseResponse mirrors the catalog's wire format. The exercise object may
// arrive at the top level or nested under one of several envelope keys.
type exerciseResponse struct {
	Data     *exercisePayload `json:"data"`
	Exercise *exercisePayload `json:"exercise"`
	Result   *exercisePayload `json:"result"`
	exercisePayload
}

type exercisePayload struct {
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Instructions string        `json:"instructions"`
	Type         string        `json:"type"`
	Tags         []exerciseTag `json:"tags"`
}

type exerciseTag struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// GetExercise fetches one exercise record by id.
func (c *HTTPClient) GetExercise(ctx context.Context, id int64) (*core.ExerciseRecord, error) {
	body, err := json.Marshal(map[string]int64{"id": id})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	if c.config.Authorization != "" {
		req.Header.Set("authorization", c.config.Authorization)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("catalog request failed", "id", id, "status", resp.StatusCode, "body", string(msg))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var envelope exerciseResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding response for id %d: %v", ErrUnavailable, id, err)
	}

	payload := envelope.unwrap()
	record := recordFromPayload(id, payload)
	if err := core.ValidateExerciseRecord(record); err != nil {
		return nil, err
	}

	return record, nil
}

// unwrap resolves the envelope variants the catalog is known to produce.
func (r *exerciseResponse) unwrap() *exercisePayload {
	switch {
	case r.Data != nil:
		return r.Data
	case r.Exercise != nil:
		return r.Exercise
	case r.Result != nil:
		return r.Result
	default:
		return &r.exercisePayload
	}
}

// recordFromPayload maps the wire format onto the domain record. Tags are
// grouped by type: mainMuscle and equipment become dedicated fields, a level
// tag becomes the difficulty when it names a known level, everything else
// stays a plain tag.
func recordFromPayload(id int64, p *exercisePayload) *core.ExerciseRecord {
	record := &core.ExerciseRecord{
		Id:           id,
		Name:         p.Name,
		Description:  p.Description,
		Instructions: p.Instructions,
		Category:     p.Type,
	}

	for _, tag := range p.Tags {
		if tag.Name == "" {
			continue
		}
		switch tag.Type {
		case "mainMuscle", "muscle":
			record.MuscleGroups = append(record.MuscleGroups, tag.Name)
		case "equipment":
			record.Equipment = append(record.Equipment, tag.Name)
		case "level":
			if core.ValidateDifficulty(core.Difficulty(tag.Name)) == nil {
				record.Difficulty = core.Difficulty(tag.Name)
			} else {
				record.Tags = append(record.Tags, tag.Name)
			}
		default:
			record.Tags = append(record.Tags, tag.Name)
		}
	}

	return record
}
