package migrations

import (
	"io/fs"
	"testing"
)

func TestSessionsFSContainsMigrations(t *testing.T) {
	files, err := fs.Glob(SessionsFS, "sessions/*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("expected embedded session migrations")
	}
}
