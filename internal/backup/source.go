package backup

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"StackSnap/internal/constants"
	"StackSnap/internal/docker"
	"StackSnap/internal/logger"
	"StackSnap/internal/portainer"
)

// Source discovers stacks and fetches their compose content.
type Source interface {
	// Name describes the source for logging.
	Name() string
	// Discover returns all known stack definitions.
	Discover(ctx context.Context) ([]portainer.Stack, error)
	// ComposeFile returns the compose content for a stack.
	ComposeFile(ctx context.Context, stack portainer.Stack) ([]byte, error)
}

// apiSource backs up through the Portainer REST API.
type apiSource struct {
	client *portainer.Client
}

// NewAPISource creates a Source backed by the Portainer API. The
// server is version-checked up front so a wrong URL or key fails fast.
func NewAPISource(ctx context.Context, url, apiKey string, tlsSkipVerify bool) (Source, error) {
	client, err := portainer.NewClient(url, apiKey, tlsSkipVerify)
	if err != nil {
		return nil, err
	}
	if err := client.CheckVersion(ctx); err != nil {
		return nil, err
	}
	return &apiSource{client: client}, nil
}

func (s *apiSource) Name() string {
	return "portainer api " + s.client.BaseURL()
}

func (s *apiSource) Discover(ctx context.Context) ([]portainer.Stack, error) {
	return s.client.ListStacks(ctx)
}

func (s *apiSource) ComposeFile(ctx context.Context, stack portainer.Stack) ([]byte, error) {
	content, err := s.client.StackFile(ctx, stack.Id)
	if err != nil {
		return nil, err
	}
	return []byte(content), nil
}

// volumeSource backs up by reading Portainer's data volume directly,
// for instances where the API is unreachable or no token exists.
type volumeSource struct {
	service *docker.Service
	volume  string
}

// NewVolumeSource creates a Source that extracts files from the
// Portainer data volume through ephemeral helper containers.
func NewVolumeSource(ctx context.Context, service *docker.Service, volume string) (Source, error) {
	if volume == "" {
		volume = constants.DefaultVolumeName
	}
	if !service.IsAvailable(ctx) {
		return nil, fmt.Errorf("docker daemon is not reachable")
	}
	exists, err := service.VolumeExists(ctx, volume)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("volume %s does not exist", volume)
	}
	if _, err := service.RemoveStaleHelpers(ctx); err != nil {
		logger.Warn(ctx, "Cannot clean up stale helper containers: %v", err)
	}
	return &volumeSource{service: service, volume: volume}, nil
}

func (s *volumeSource) Name() string {
	return "volume " + s.volume
}

// Discover copies the embedded database out of the volume and scans it
// for stack records.
func (s *volumeSource) Discover(ctx context.Context) ([]portainer.Stack, error) {
	logger.Info(ctx, "Reading {{_File_}}%s{{|-|}} from volume {{_Volume_}}%s{{|-|}}", constants.PortainerDBFileName, s.volume)

	data, err := s.service.CopyFileFromVolume(ctx, s.volume, constants.PortainerDBFileName)
	if err != nil {
		return nil, fmt.Errorf("cannot read portainer database: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "stacksnap-db-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, constants.PortainerDBFileName)
	if err := os.WriteFile(dbPath, data, 0o600); err != nil {
		return nil, err
	}

	return portainer.ScanDatabase(ctx, dbPath)
}

// ComposeFile pulls the stack's compose file out of the volume, trying
// the .yml name first and the .yaml spelling second.
func (s *volumeSource) ComposeFile(ctx context.Context, stack portainer.Stack) ([]byte, error) {
	candidates := []string{
		path.Join(constants.ComposeDirName, fmt.Sprint(stack.Id), constants.ComposeFileName),
		path.Join(constants.ComposeDirName, fmt.Sprint(stack.Id), constants.ComposeFileNameAlt),
	}
	if stack.EntryPoint != "" && stack.EntryPoint != constants.ComposeFileName && stack.EntryPoint != constants.ComposeFileNameAlt {
		candidates = append(candidates, path.Join(constants.ComposeDirName, fmt.Sprint(stack.Id), stack.EntryPoint))
	}

	var lastErr error
	for _, candidate := range candidates {
		content, err := s.service.CopyFileFromVolume(ctx, s.volume, candidate)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !docker.IsNotFound(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("no compose file found for stack %s: %w", stack.Name, lastErr)
}
