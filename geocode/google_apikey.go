// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

// GoogleMapsAPIKeyEnv is checked before falling back to Application Default Credentials.
const GoogleMapsAPIKeyEnv = "GOOGLE_MAPS_API_KEY"

// DefaultAPIKeyDisplayName is the display name of the key looked up via ADC.
const DefaultAPIKeyDisplayName = "POIs Geocoding Key"

// GoogleMapsAPIKey returns the key from the environment or, when unset, looks
// up the key named displayName in the ADC project.
func GoogleMapsAPIKey(ctx context.Context, displayName string) (string, error) {
	if apiKey := os.Getenv(GoogleMapsAPIKeyEnv); apiKey != "" {
		return apiKey, nil
	}

	log.Printf("%s is not set. Attempting to retrieve via ADC...", GoogleMapsAPIKeyEnv)

	apiKey, err := apiKeyFromADC(ctx, displayName)
	if err != nil {
		return "", fmt.Errorf("retrieving API key via ADC: %w", err)
	}

	log.Println("Retrieved Google Maps API key via ADC")

	return apiKey, nil
}

func apiKeyFromADC(ctx context.Context, displayName string) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	if creds.ProjectID == "" {
		return "", errors.New("no project ID in default credentials")
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	it := client.ListKeys(ctx, &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", creds.ProjectID),
	})

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName != displayName {
			continue
		}

		// ListKeys redacts the secret.
		resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{Name: key.Name})
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}

		if resp.KeyString == "" {
			return "", fmt.Errorf("key %q has an empty key string", displayName)
		}

		return resp.KeyString, nil
	}

	return "", fmt.Errorf("key with display name %q not found in project %s", displayName, creds.ProjectID)
}
