package sim

import (
	"navcore/internal/telemetry"
	"navcore/logging"
)

// Deps bundles the ambient collaborators stages may use for
// logging/metrics/event publication.
type Deps struct {
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
	Publisher logging.Publisher
}
