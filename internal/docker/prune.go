package docker

import (
	"context"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"StackSnap/internal/constants"
	"StackSnap/internal/logger"
)

// RemoveStaleHelpers removes leftover helper containers from earlier
// runs that were interrupted before their own cleanup ran. Containers
// are matched by the helper label, so nothing else is touched.
func (s *Service) RemoveStaleHelpers(ctx context.Context) (int, error) {
	cli, err := s.getClient()
	if err != nil {
		return 0, err
	}
	defer func() { _ = cli.Close() }()

	containers, err := cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", constants.HelperContainerLabel)),
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, c := range containers {
		if err := cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: true}); err != nil {
			logger.Warn(ctx, "Cannot remove stale helper container %s: %v", c.ID[:12], err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Info(ctx, "Removed %d stale helper container(s)", removed)
	}
	return removed, nil
}
