package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/marcus/wayfind/internal/models"
)

// ListCategories returns the interest categories offered during onboarding.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var resp []wireCategory
	if err := c.doRequest(ctx, http.MethodGet, "/category", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(resp))
	for _, w := range resp {
		out = append(out, w.toCategory())
	}
	return out, nil
}

// CreateOrUpdateProfile submits the chosen categories and returns the
// profile id issued by the backend.
func (c *Client) CreateOrUpdateProfile(ctx context.Context, choices []models.CategoryChoice) (string, error) {
	var resp profileResponse
	if err := c.doRequest(ctx, http.MethodPost, "/user/profile", profileRequest{Choices: choices}, &resp); err != nil {
		return "", err
	}
	id := resp.profileID()
	if id == "" {
		return "", errors.New("profile response carried no id")
	}
	return id, nil
}

// ListPois returns every POI.
func (c *Client) ListPois(ctx context.Context) ([]models.Poi, error) {
	var resp []wirePoi
	if err := c.doRequest(ctx, http.MethodGet, "/poi", nil, &resp); err != nil {
		return nil, err
	}
	return toPois(resp), nil
}

// GetPoi returns a single POI.
func (c *Client) GetPoi(ctx context.Context, id string) (models.Poi, error) {
	var resp wirePoi
	if err := c.doRequest(ctx, http.MethodGet, "/poi/"+url.PathEscape(id), nil, &resp); err != nil {
		return models.Poi{}, err
	}
	return resp.toPoi(), nil
}

// ListRecommendations returns up to limit POIs picked for the user.
func (c *Client) ListRecommendations(ctx context.Context, userID string, limit int) ([]models.Poi, error) {
	path := fmt.Sprintf("/user/%s/recommendations", url.PathEscape(userID))
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var resp []wirePoi
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return toPois(resp), nil
}

// RecordPoiDecision stores the user's like or dislike of a POI.
func (c *Client) RecordPoiDecision(ctx context.Context, userID, poiID string, liked bool) error {
	path := fmt.Sprintf("/user/%s/poi/%s/decision", url.PathEscape(userID), url.PathEscape(poiID))
	return c.doRequest(ctx, http.MethodPost, path, decisionRequest{Liked: liked}, nil)
}

// ListUserDecisions returns every decision the user has made.
func (c *Client) ListUserDecisions(ctx context.Context, userID string) ([]models.Decision, error) {
	var resp []wireDecision
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/user/%s/decisions", url.PathEscape(userID)), nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.Decision, 0, len(resp))
	for _, w := range resp {
		out = append(out, w.toDecision())
	}
	return out, nil
}
