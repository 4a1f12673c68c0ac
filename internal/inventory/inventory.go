// Package inventory aggregates desired-state ContainerSpecs from a
// directory of spec files and, optionally, a cloud user-data document.
// It does no validation beyond JSON well-formedness; schema and
// reserved-name enforcement live at the driver boundary.
package inventory

import (
	"context"
	"time"

	"github.com/barchart/dockerup/internal/config"
	"github.com/barchart/dockerup/internal/logging"
	"github.com/barchart/dockerup/internal/specdata"
)

// CloudUserDataCommand is the external command whose stdout is the
// cloud user-data JSON document.
var CloudUserDataCommand = []string{"ec2metadata", "--user-data"}

// CloudUserDataTimeout bounds the external command.
const CloudUserDataTimeout = 5 * time.Second

// Result is one load's output: the merged ContainerSpec sequence and
// any scalar setting overrides found in the loaded documents.
type Result struct {
	Specs     []specdata.ContainerSpec
	Overrides map[string]any
}

// Load merges the confdir (always) and cloud user-data (if
// settings.AWS() is true) into a single Result: a file-level error is
// logged and that file skipped; an entirely missing confdir yields an
// empty inventory.
func Load(ctx context.Context, settings *config.Settings, log *logging.Logger) Result {
	var merged document

	confdirDoc, err := loadConfDir(settings.ConfDir, log)
	if err != nil {
		log.Warn("inventory: confdir unavailable", "dir", settings.ConfDir, "error", err)
	} else {
		merged.merge(confdirDoc)
	}

	if settings.AWS() {
		cloudDoc, err := loadCloudUserData(ctx, log)
		if err != nil {
			log.Warn("inventory: cloud user-data unavailable", "error", err)
		} else {
			merged.merge(cloudDoc)
		}
	}

	return Result{Specs: merged.Containers, Overrides: merged.scalars}
}
