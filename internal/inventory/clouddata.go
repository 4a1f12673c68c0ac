package inventory

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/barchart/dockerup/internal/logging"
)

// loadCloudUserData runs CloudUserDataCommand and parses its stdout as
// a JSON document of the same shape as a confdir file. The command is
// killed if it exceeds CloudUserDataTimeout.
func loadCloudUserData(ctx context.Context, log *logging.Logger) (document, error) {
	ctx, cancel := context.WithTimeout(ctx, CloudUserDataTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, CloudUserDataCommand[0], CloudUserDataCommand[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Debug("inventory: cloud user-data command failed", "stderr", stderr.String())
		return document{}, fmt.Errorf("cloud user-data command failed: %w", err)
	}

	return parseDocument(stdout.Bytes())
}
