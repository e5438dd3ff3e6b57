// Package vision screens avatars with Google Cloud Vision SafeSearch.
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"taskmanager/internal/feature/users/usecase"
)

// SafeSearchModerator rejects images that SafeSearch rates at least LIKELY adult, violent or racy.
type SafeSearchModerator struct {
	client *gvision.ImageAnnotatorClient
}

var _ usecase.ImageModerator = (*SafeSearchModerator)(nil)

// NewSafeSearchModerator creates a client using Application Default Credentials.
func NewSafeSearchModerator(ctx context.Context) (*SafeSearchModerator, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &SafeSearchModerator{client: client}, nil
}

func (m *SafeSearchModerator) Close() error {
	return m.client.Close()
}

func (m *SafeSearchModerator) Moderate(ctx context.Context, image []byte) (bool, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_SAFE_SEARCH_DETECTION},
				},
			},
		},
	}

	resp, err := m.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return false, fmt.Errorf("vision API request failed: %w", err)
	}
	if len(resp.Responses) == 0 {
		return false, fmt.Errorf("vision API returned no responses")
	}
	if resp.Responses[0].Error != nil {
		return false, fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	return isSafe(resp.Responses[0].SafeSearchAnnotation), nil
}

// isSafe reports whether none of the screened categories reach LIKELY.
// A missing annotation is treated as safe.
func isSafe(a *visionpb.SafeSearchAnnotation) bool {
	if a == nil {
		return true
	}
	for _, l := range []visionpb.Likelihood{a.Adult, a.Violence, a.Racy} {
		if l >= visionpb.Likelihood_LIKELY {
			return false
		}
	}
	return true
}
