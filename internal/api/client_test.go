package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/wayfind/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, Options{RateLimit: 1000})
}

func TestListPoisMapsWireShapes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/poi", r.URL.Path)
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err, "request id should be a uuid")
		io.WriteString(w, `[
			{"uuid":"p1","name":"Opera","shortDescription":"s","longDescription":"l","image":"i.jpg","popularity":4.5,"locationX":53.1,"locationY":18.0},
			{"id":"p2","name":"Mill","short_description":"s2","image_url":"m.jpg","location_x":53.2,"location_y":18.1,"category_id":"history"}
		]`)
	})

	pois, err := c.ListPois(context.Background())
	require.NoError(t, err)
	require.Len(t, pois, 2)

	assert.Equal(t, models.Poi{
		ID: "p1", Name: "Opera", ShortDesc: "s", LongDesc: "l", ImageURL: "i.jpg",
		Popularity: 4.5, Lat: 53.1, Lng: 18.0, Located: true,
	}, pois[0])
	assert.Equal(t, "p2", pois[1].ID)
	assert.Equal(t, "m.jpg", pois[1].ImageURL)
	assert.Equal(t, 53.2, pois[1].Lat)
	assert.Equal(t, "history", pois[1].CategoryID)
}

func TestGetPoiLocation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		located bool
	}{
		{"equator meridian", `{"id":"p","locationX":0,"locationY":0}`, true},
		{"snake case", `{"id":"p","location_x":1.5,"location_y":2.5}`, true},
		{"null", `{"id":"p","locationX":null,"locationY":null}`, false},
		{"missing", `{"id":"p"}`, false},
		{"half", `{"id":"p","locationX":54.1}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			})
			p, err := c.GetPoi(context.Background(), "p")
			require.NoError(t, err)
			assert.Equal(t, tt.located, p.HasLocation())
		})
	}
}

func TestCreateOrUpdateProfile(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantID string
	}{
		{"uuid", `{"uuid":"u-1"}`, "u-1"},
		{"id", `{"id":"u-2"}`, "u-2"},
		{"userProfileId", `{"userProfileId":"u-3"}`, "u-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/user/profile", r.URL.Path)
				require.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var req struct {
					Choices []struct {
						CategoryID string `json:"category_id"`
						Choice     string `json:"choice"`
					} `json:"choices"`
				}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				require.Len(t, req.Choices, 2)
				assert.Equal(t, "c1", req.Choices[0].CategoryID)
				assert.Equal(t, "1", req.Choices[0].Choice)
				io.WriteString(w, tt.body)
			})

			id, err := c.CreateOrUpdateProfile(context.Background(), models.ChoicesFromCategories([]string{"c1", "c2"}))
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestCreateProfileWithoutID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})
	_, err := c.CreateOrUpdateProfile(context.Background(), nil)
	require.Error(t, err)
}

func TestListRecommendations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/u 1/recommendations", r.URL.Path)
		require.Equal(t, "7", r.URL.Query().Get("limit"))
		io.WriteString(w, `[{"uuid":"p9","name":"Bridge"}]`)
	})

	pois, err := c.ListRecommendations(context.Background(), "u 1", 7)
	require.NoError(t, err)
	require.Len(t, pois, 1)
	assert.Equal(t, "p9", pois[0].ID)
}

func TestRecordPoiDecision(t *testing.T) {
	var got decisionRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/user/u1/poi/p1/decision", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, c.RecordPoiDecision(context.Background(), "u1", "p1", true))
	assert.True(t, got.Liked)
}

func TestListUserDecisions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/u1/decisions", r.URL.Path)
		io.WriteString(w, `[{"poiId":"p1","liked":true},{"poi_id":"p2","liked":false}]`)
	})

	ds, err := c.ListUserDecisions(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.Decision{{PoiID: "p1", Liked: true}, {PoiID: "p2", Liked: false}}, ds)
}

func TestListCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/category", r.URL.Path)
		io.WriteString(w, `[{"id":"c1","name":"Museums","image_url":"m.png"},{"uuid":"c2","name":"Parks","imageUrl":"p.png"}]`)
	})

	cats, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Category{
		{ID: "c1", Label: "Museums", ImageURL: "m.png"},
		{ID: "c2", Label: "Parks", ImageURL: "p.png"},
	}, cats)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, `{"message":"nope"}`)
			})
			_, err := c.GetPoi(context.Background(), "p1")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestUnclassifiedError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"error":"bad choice"}`)
	})
	err := c.RecordPoiDecision(context.Background(), "u", "p", false)
	require.Error(t, err)

	var ae *apiError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusUnprocessableEntity, ae.Status)
	assert.Equal(t, "bad choice", ae.Message)
}

func TestCancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListPois(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
