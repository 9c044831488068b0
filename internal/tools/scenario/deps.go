package scenario

import (
	"context"

	"github.com/laneworks/laneworks/internal/core/lanes"
	centerdomain "github.com/laneworks/laneworks/internal/services/center/domain"
	centerservice "github.com/laneworks/laneworks/internal/services/center/service"
)

// centerOps is the slice of the center service the runner drives.
type centerOps interface {
	CreateCenter(ctx context.Context, input centerdomain.CreateCenterInput) (centerdomain.Center, error)
	ConfigureLayout(ctx context.Context, centerID string, ranges []centerservice.RangeInput, grantToken string) (centerdomain.Center, error)
	ListLanePairs(ctx context.Context, centerID string) ([]lanes.LanePair, error)
	RenameCenter(ctx context.Context, centerID, name string) (centerdomain.Center, error)
}

// grantIssuer mints a layout grant for replacing a center's layout.
type grantIssuer func(centerID string) (string, error)

// runnerDeps bundles injectable dependencies for runner construction.
type runnerDeps struct {
	svc    centerOps
	issuer grantIssuer
}
