package backup

import (
	"context"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
)

// validateCompose checks compose content against the Compose schema.
// Interpolation is skipped because stack files reference Portainer-side
// variables that are not available here.
func validateCompose(ctx context.Context, content []byte) error {
	configDetails := types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Filename: "docker-compose.yml",
				Content:  content,
			},
		},
	}

	_, err := loader.LoadWithContext(ctx, configDetails, func(options *loader.Options) {
		options.SetProjectName("stacksnap", true)
		options.SkipInterpolation = true
		options.SkipValidation = false
		options.SkipConsistencyCheck = true
	})
	return err
}
