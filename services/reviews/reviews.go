package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"anchorsite/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	cacheKey = "reviews:google"
	cacheTTL = 24 * time.Hour
)

// Service exposes the venue's Google rating and recent reviews.
type Service interface {
	GetReviews(ctx context.Context) (*models.ReviewData, error)
}

// GooglePlacesService is a read-through cache over the Places Details API.
// Reviews change slowly, so a stale day is acceptable and keeps the site
// inside the API quota.
type GooglePlacesService struct {
	HC      *http.Client
	APIKey  string
	PlaceID string
	Cache   *redis.Client
	Logger  *zap.Logger
}

func NewGooglePlacesService(apiKey, placeID string, cache *redis.Client, logger *zap.Logger) *GooglePlacesService {
	return &GooglePlacesService{
		HC:      &http.Client{Timeout: 10 * time.Second},
		APIKey:  apiKey,
		PlaceID: placeID,
		Cache:   cache,
		Logger:  logger,
	}
}

type placeDetailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Rating           float64         `json:"rating"`
		UserRatingsTotal int             `json:"user_ratings_total"`
		Reviews          []models.Review `json:"reviews"`
	} `json:"result"`
}

func (s *GooglePlacesService) GetReviews(ctx context.Context) (*models.ReviewData, error) {
	if cached, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
		var data models.ReviewData
		if err := json.Unmarshal([]byte(cached), &data); err == nil {
			return &data, nil
		}
	}

	data, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(data); err == nil {
		if err := s.Cache.Set(ctx, cacheKey, payload, cacheTTL).Err(); err != nil {
			s.Logger.Warn("review cache write failed", zap.Error(err))
		}
	}
	return data, nil
}

func (s *GooglePlacesService) fetch(ctx context.Context) (*models.ReviewData, error) {
	if s.APIKey == "" || s.PlaceID == "" {
		return nil, fmt.Errorf("google places: api key or place id not configured")
	}

	endpoint := "https://maps.googleapis.com/maps/api/place/details/json?" + url.Values{
		"place_id": {s.PlaceID},
		"fields":   {"rating,user_ratings_total,reviews"},
		"key":      {s.APIKey},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	res, err := s.HC.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google places: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("google places: read response: %w", err)
	}

	var details placeDetailsResponse
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("google places: decode response: %w", err)
	}
	if details.Status != "OK" {
		return nil, fmt.Errorf("google places: status %s", details.Status)
	}

	return &models.ReviewData{
		Rating:       details.Result.Rating,
		TotalReviews: details.Result.UserRatingsTotal,
		Reviews:      details.Result.Reviews,
	}, nil
}
