package inventory

import (
	"context"
	"testing"
)

func TestLoadCloudUserDataParsesStdout(t *testing.T) {
	old := CloudUserDataCommand
	defer func() { CloudUserDataCommand = old }()
	CloudUserDataCommand = []string{"echo", `{"containers":[{"image":"cloud-app"}],"aws":true}`}

	doc, err := loadCloudUserData(context.Background(), testLogger())
	if err != nil {
		t.Fatalf("loadCloudUserData: %v", err)
	}
	if len(doc.Containers) != 1 || doc.Containers[0].Image != "cloud-app" {
		t.Errorf("Containers = %v, want one spec with image cloud-app", doc.Containers)
	}
}

func TestLoadCloudUserDataCommandFails(t *testing.T) {
	old := CloudUserDataCommand
	defer func() { CloudUserDataCommand = old }()
	CloudUserDataCommand = []string{"false"}

	if _, err := loadCloudUserData(context.Background(), testLogger()); err == nil {
		t.Fatal("expected an error when the command exits non-zero")
	}
}
