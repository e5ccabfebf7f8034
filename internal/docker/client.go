package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"

	"StackSnap/internal/constants"
	"StackSnap/internal/logger"
)

// volumeMountPoint is where the source volume is mounted read-only
// inside helper containers.
const volumeMountPoint = "/snapshot"

// Service wraps the Docker Engine API for volume file extraction.
type Service struct {
	HelperImage string
}

// NewService creates a Service using the given helper image, falling
// back to the default when empty.
func NewService(helperImage string) *Service {
	if helperImage == "" {
		helperImage = constants.DefaultHelperImage
	}
	return &Service{HelperImage: helperImage}
}

func (s *Service) getClient() (*client.Client, error) {
	return client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
}

// IsAvailable checks whether the Docker daemon is reachable.
func (s *Service) IsAvailable(ctx context.Context) bool {
	cli, err := s.getClient()
	if err != nil {
		return false
	}
	defer func() { _ = cli.Close() }()

	_, err = cli.Ping(ctx)
	return err == nil
}

// VolumeExists checks whether the named volume is known to the daemon.
func (s *Service) VolumeExists(ctx context.Context, name string) (bool, error) {
	cli, err := s.getClient()
	if err != nil {
		return false, fmt.Errorf("failed to create Docker client: %w", err)
	}
	defer func() { _ = cli.Close() }()

	if _, err := cli.VolumeInspect(ctx, name); err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ensureImage makes sure the helper image is present locally, pulling
// it when missing.
func (s *Service) ensureImage(ctx context.Context, cli *client.Client) error {
	if _, err := cli.ImageInspect(ctx, s.HelperImage); err == nil {
		return nil
	}

	logger.Info(ctx, "Pulling helper image {{_Var_}}%s{{|-|}}", s.HelperImage)
	reader, err := cli.ImagePull(ctx, s.HelperImage, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull %s: %w", s.HelperImage, err)
	}
	defer reader.Close()

	// Drain the progress stream so the pull completes
	_, err = io.Copy(io.Discard, reader)
	return err
}

// CopyFileFromVolume extracts a single file from a Docker volume by
// creating a stopped helper container with the volume mounted
// read-only and streaming the file out over the engine copy API. The
// helper container is always removed.
func (s *Service) CopyFileFromVolume(ctx context.Context, volumeName, filePath string) ([]byte, error) {
	cli, err := s.getClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}
	defer func() { _ = cli.Close() }()

	if err := s.ensureImage(ctx, cli); err != nil {
		return nil, err
	}

	created, err := cli.ContainerCreate(ctx,
		&container.Config{
			Image: s.HelperImage,
			Cmd:   []string{"true"},
			Labels: map[string]string{
				constants.HelperContainerLabel: "true",
			},
		},
		&container.HostConfig{
			Mounts: []mount.Mount{
				{
					Type:     mount.TypeVolume,
					Source:   volumeName,
					Target:   volumeMountPoint,
					ReadOnly: true,
				},
			},
		},
		nil, nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create helper container: %w", err)
	}

	defer func() {
		if err := cli.ContainerRemove(context.WithoutCancel(ctx), created.ID, container.RemoveOptions{Force: true}); err != nil {
			logger.Warn(ctx, "Failed to remove helper container {{_Var_}}%s{{|-|}}: %v", created.ID[:12], err)
		}
	}()

	srcPath := path.Join(volumeMountPoint, filePath)
	reader, _, err := cli.CopyFromContainer(ctx, created.ID, srcPath)
	if err != nil {
		if client.IsErrNotFound(err) {
			return nil, &NotFoundError{Volume: volumeName, Path: filePath}
		}
		return nil, fmt.Errorf("failed to copy %s from volume %s: %w", filePath, volumeName, err)
	}
	defer reader.Close()

	content, err := ExtractSingleFile(reader, path.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s from archive: %w", filePath, err)
	}
	return content, nil
}

// NotFoundError reports a path missing inside a volume.
type NotFoundError struct {
	Volume string
	Path   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in volume %s", e.Path, e.Volume)
}

// IsNotFound reports whether err is a missing volume path.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
