package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/plansapp/plans_backend/models"
)

const profileCacheTTL = 10 * time.Minute

// UserClient fetches user profiles from the user service. Lookups are
// bounded by a short timeout and degrade to an empty result on any failure;
// callers always get a usable (possibly empty) map.
type UserClient struct {
	baseURL string
	http    *http.Client
	cache   *redis.Client
}

// NewUserClient creates a user service client. cache may be nil, in which
// case every lookup goes straight to the user service.
func NewUserClient(cache *redis.Client) *UserClient {
	baseURL := os.Getenv("USER_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3001"
	}

	return &UserClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		cache:   cache,
	}
}

// GetProfiles returns the profiles for the given user ids, keyed by id.
// Missing users are simply absent from the map.
func (c *UserClient) GetProfiles(ctx context.Context, userIDs []string) map[string]models.UserProfile {
	profiles := make(map[string]models.UserProfile)
	if len(userIDs) == 0 {
		return profiles
	}

	missing := userIDs
	if c.cache != nil {
		missing = make([]string, 0, len(userIDs))
		for _, id := range userIDs {
			val, err := c.cache.Get(ctx, profileCacheKey(id)).Result()
			if err != nil {
				missing = append(missing, id)
				continue
			}
			var profile models.UserProfile
			if err := json.Unmarshal([]byte(val), &profile); err != nil {
				missing = append(missing, id)
				continue
			}
			profiles[id] = profile
		}
	}
	if len(missing) == 0 {
		return profiles
	}

	reqURL := fmt.Sprintf("%s/api/users/batch?ids=%s", c.baseURL, url.QueryEscape(strings.Join(missing, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Printf("Failed to build user profile request: %v", err)
		return profiles
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("Failed to fetch user profiles: %v. Falling back to minimal data.", err)
		return profiles
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("User service returned %d for profile batch. Falling back to minimal data.", resp.StatusCode)
		return profiles
	}

	var body struct {
		Users []models.UserProfile `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("Failed to decode user profiles: %v. Falling back to minimal data.", err)
		return profiles
	}

	for _, profile := range body.Users {
		profiles[profile.ID] = profile
		if c.cache != nil {
			if b, err := json.Marshal(profile); err == nil {
				c.cache.Set(ctx, profileCacheKey(profile.ID), b, profileCacheTTL)
			}
		}
	}
	return profiles
}

func profileCacheKey(userID string) string {
	return "profile:" + userID
}
