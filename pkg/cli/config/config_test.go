package config_test

import (
	"context"
	"testing"

	"github.com/pressbridge/pressbridge/pkg/cli/config"
)

func TestRepositoryConfigureMemory(t *testing.T) {
	repo, err := config.NewRepositoryForTest("memory", "", "").Configure(context.Background())
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()

	if repo.User() == nil {
		t.Error("repository should expose a user store")
	}
}

func TestRepositoryConfigureFirestoreRequiresProjectID(t *testing.T) {
	_, err := config.NewRepositoryForTest("firestore", "", "").Configure(context.Background())
	if err == nil {
		t.Error("Configure should fail without a project ID")
	}
}

func TestRepositoryConfigureUnknownBackend(t *testing.T) {
	_, err := config.NewRepositoryForTest("etcd", "", "").Configure(context.Background())
	if err == nil {
		t.Error("Configure should reject unknown backends")
	}
}

func TestChatConfigureRestRequiresBaseURL(t *testing.T) {
	_, _, err := config.NewChatForTest("rest", "", "").Configure(context.Background())
	if err == nil {
		t.Error("Configure should fail without a base URL")
	}
}

func TestChatConfigureStoreRequiresProjectID(t *testing.T) {
	_, _, err := config.NewChatForTest("store", "", "").Configure(context.Background())
	if err == nil {
		t.Error("Configure should fail without a project ID")
	}
}

func TestChatConfigureUnknownTransport(t *testing.T) {
	_, _, err := config.NewChatForTest("carrier-pigeon", "", "").Configure(context.Background())
	if err == nil {
		t.Error("Configure should reject unknown transports")
	}
}

func TestLoggerConfigureRejectsBadLevel(t *testing.T) {
	_, err := config.NewLoggerForTest("loud", "console", "stdout").Configure()
	if err == nil {
		t.Error("Configure should reject unknown log levels")
	}
}

func TestLoggerConfigureRejectsBadFormat(t *testing.T) {
	_, err := config.NewLoggerForTest("info", "xml", "stdout").Configure()
	if err == nil {
		t.Error("Configure should reject unknown log formats")
	}
}

func TestMailConfigureLogBackend(t *testing.T) {
	sender, err := config.NewMailForTest("log", "", "").Configure()
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if sender == nil {
		t.Error("sender should not be nil")
	}
}

func TestMailConfigureSMTPRequiresAddr(t *testing.T) {
	_, err := config.NewMailForTest("smtp", "", "noreply@example.com").Configure()
	if err == nil {
		t.Error("Configure should fail without a relay address")
	}
}

func TestMailConfigureSMTPRequiresFrom(t *testing.T) {
	_, err := config.NewMailForTest("smtp", "smtp.example.com:587", "").Configure()
	if err == nil {
		t.Error("Configure should fail without a sender address")
	}
}

func TestMailConfigureUnknownBackend(t *testing.T) {
	_, err := config.NewMailForTest("telegraph", "", "").Configure()
	if err == nil {
		t.Error("Configure should reject unknown backends")
	}
}
