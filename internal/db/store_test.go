package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeScan assigns the given row values positionally, the way a pgx row
// scan would.
func fakeScan(values ...any) func(dest ...any) error {
	return func(dest ...any) error {
		for i, d := range dest {
			switch p := d.(type) {
			case *uuid.UUID:
				*p = values[i].(uuid.UUID)
			case *string:
				*p = values[i].(string)
			case *bool:
				*p = values[i].(bool)
			case *[]byte:
				*p = values[i].([]byte)
			case *time.Time:
				*p = values[i].(time.Time)
			}
		}
		return nil
	}
}

func TestScanHelpRequest(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()
	submitted := time.Now()

	req, err := scanHelpRequest(fakeScan(
		id, userID, "essay-review", "Fellowships", true,
		"2026-12-01", "drafting", "Review my statement", "", "priority",
		"submitted", []byte(`[{"file_name":"essay.pdf","url":"/files/essay.pdf"}]`), submitted,
	))
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if req.ID != id || req.UserID != userID {
		t.Fatal("ids not mapped")
	}
	if req.ServiceType != "essay-review" || !req.FullApplicationService {
		t.Fatalf("fields not mapped: %+v", req)
	}
	if len(req.Documents) != 1 || req.Documents[0].FileName != "essay.pdf" {
		t.Fatalf("documents not decoded: %+v", req.Documents)
	}
}

func TestScanHelpRequest_EmptyDocuments(t *testing.T) {
	req, err := scanHelpRequest(fakeScan(
		uuid.New(), uuid.New(), "essay-review", "", false,
		"", "", "", "", "standard",
		"submitted", []byte(`[]`), time.Now(),
	))
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if req.Documents == nil {
		t.Fatal("documents must decode to an empty slice, not nil")
	}
	if len(req.Documents) != 0 {
		t.Fatalf("expected no documents, got %+v", req.Documents)
	}
}
