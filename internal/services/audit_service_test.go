package services

import (
	"testing"

	"dwight/internal/models"
	"dwight/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	t.Run("records_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)

		svc.Log("u1", AuditUpdateHolding, AuditResourceHolding, "7", "127.0.0.1", map[string]interface{}{"quantity": 15, "notes": nil})

		var entry models.AuditLog
		if err := db.First(&entry).Error; err != nil {
			t.Fatalf("expected an audit row: %v", err)
		}
		if entry.Action != "UPDATE_HOLDING" || entry.ResourceType != "holding" || entry.ResourceID != "7" {
			t.Errorf("unexpected entry %+v", entry)
		}
		if entry.Changes != `{"notes":null,"quantity":15}` {
			t.Errorf("unexpected changes %s", entry.Changes)
		}
	})

	t.Run("no_changes_leaves_column_empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)

		svc.Log("u1", AuditLogin, AuditResourceUser, "u1", "127.0.0.1", map[string]interface{}{})

		var entry models.AuditLog
		if err := db.First(&entry).Error; err != nil {
			t.Fatalf("expected an audit row: %v", err)
		}
		if entry.Changes != "" {
			t.Errorf("expected empty changes, got %q", entry.Changes)
		}
	})
}
