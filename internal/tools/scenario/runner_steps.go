package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/laneworks/laneworks/internal/platform/errors"
	centerdomain "github.com/laneworks/laneworks/internal/services/center/domain"
	centerservice "github.com/laneworks/laneworks/internal/services/center/service"
)

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "center":
		return r.runCenterStep(ctx, state, step)
	case "range":
		return r.runRangeStep(state, step)
	case "configure":
		return r.runConfigureStep(ctx, state, step)
	case "expect_pairs":
		return r.runExpectPairsStep(ctx, state, step)
	case "rename":
		return r.runRenameStep(ctx, state, step)
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) failf(format string, args ...any) error {
	return r.assertions.Failf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	return r.assertions.Assertf(format, args...)
}

// runCenterStep registers a center and makes it the current one.
func (r *Runner) runCenterStep(ctx context.Context, state *scenarioState, step Step) error {
	name := requiredString(step.Args, "name")
	if name == "" {
		return r.failf("center name is required")
	}
	slug := optionalString(step.Args, "slug", slugify(name))
	timezone := optionalString(step.Args, "timezone", "")

	center, err := r.svc.CreateCenter(ctx, centerdomain.CreateCenterInput{
		Name:     name,
		Slug:     slug,
		Timezone: timezone,
	})
	if err != nil {
		return fmt.Errorf("create center: %w", err)
	}
	state.centers[center.Slug] = center.ID
	state.currentCenterID = center.ID
	r.logf("center %q registered as %s", center.Slug, center.ID)
	return nil
}

// runRangeStep stages a lane range for the next configure step.
func (r *Runner) runRangeStep(state *scenarioState, step Step) error {
	from, ok := readInt(step.Args, "from")
	if !ok {
		return r.failf("range from lane is required")
	}
	to, ok := readInt(step.Args, "to")
	if !ok {
		return r.failf("range to lane is required")
	}
	pins := optionalString(step.Args, "pins", "")

	state.stagedRanges = append(state.stagedRanges, centerservice.RangeInput{
		StartLane:   from,
		EndLane:     to,
		PinFallType: pins,
	})
	return nil
}

// runConfigureStep applies the staged ranges as the current center's
// layout and checks the expected verdict. Replacements mint a grant
// through the runner's issuer.
func (r *Runner) runConfigureStep(ctx context.Context, state *scenarioState, step Step) error {
	if state.currentCenterID == "" {
		return r.failf("configure requires a center step first")
	}
	expect := optionalString(step.Args, "expect", "ok")
	ranges := state.stagedRanges
	state.stagedRanges = nil

	token := ""
	if state.configured[state.currentCenterID] {
		if r.issuer == nil {
			return r.failf("layout replacement needs a grant issuer")
		}
		minted, err := r.issuer(state.currentCenterID)
		if err != nil {
			return fmt.Errorf("issue layout grant: %w", err)
		}
		token = minted
	}

	_, err := r.svc.ConfigureLayout(ctx, state.currentCenterID, ranges, token)
	if expect == "ok" {
		if err != nil {
			return r.assertf("configure layout: %v", err)
		}
		state.configured[state.currentCenterID] = true
		return nil
	}
	if err == nil {
		state.configured[state.currentCenterID] = true
		return r.assertf("configure succeeded, want rejection %s", expect)
	}
	if got := rejectionCode(err); got != expect {
		return r.assertf("configure rejected with %s, want %s", got, expect)
	}
	return nil
}

// runExpectPairsStep compares the bookable pair count of the current
// center's layout against the scripted total.
func (r *Runner) runExpectPairsStep(ctx context.Context, state *scenarioState, step Step) error {
	if state.currentCenterID == "" {
		return r.failf("expect_pairs requires a center step first")
	}
	total, ok := readInt(step.Args, "total")
	if !ok {
		return r.failf("expect_pairs total is required")
	}
	pairs, err := r.svc.ListLanePairs(ctx, state.currentCenterID)
	if err != nil {
		return r.assertf("list lane pairs: %v", err)
	}
	if len(pairs) != total {
		return r.assertf("lane pairs = %d, want %d", len(pairs), total)
	}
	return nil
}

// runRenameStep renames the current center.
func (r *Runner) runRenameStep(ctx context.Context, state *scenarioState, step Step) error {
	if state.currentCenterID == "" {
		return r.failf("rename requires a center step first")
	}
	name := requiredString(step.Args, "name")
	if name == "" {
		return r.failf("rename name is required")
	}
	if _, err := r.svc.RenameCenter(ctx, state.currentCenterID, name); err != nil {
		return fmt.Errorf("rename center: %w", err)
	}
	return nil
}

// rejectionCode extracts the most specific code from a layout error:
// the engine rule code when present, the platform code otherwise.
func rejectionCode(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if reason := appErr.Metadata["reason"]; reason != "" {
			return reason
		}
		return string(appErr.Code)
	}
	return err.Error()
}

func slugify(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

func requiredString(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}

func optionalString(args map[string]any, key, fallback string) string {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	text, ok := value.(string)
	if !ok {
		return fallback
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func readInt(args map[string]any, key string) (int, bool) {
	value, ok := args[key]
	if !ok {
		return 0, false
	}
	switch typed := value.(type) {
	case int:
		return typed, true
	case float64:
		return int(typed), true
	default:
		return 0, false
	}
}
