package session

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreSetUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}

	mock.ExpectExec("INSERT INTO session_state").
		WithArgs("s1", KeyFeedback, []byte(`{"match_percentage":72}`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Set(context.Background(), "s1", KeyFeedback, []byte(`{"match_percentage":72}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}

	rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`"cv.pdf"`))
	mock.ExpectQuery("SELECT value").
		WithArgs("s1", KeyCVName).
		WillReturnRows(rows)

	val, ok, err := store.Get(context.Background(), "s1", KeyCVName)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || string(val) != `"cv.pdf"` {
		t.Fatalf("unexpected result ok=%v val=%s", ok, val)
	}

	// Missing rows are absent, not an error.
	mock.ExpectQuery("SELECT value").
		WithArgs("s1", KeyJDName).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, ok, err = store.Get(context.Background(), "s1", KeyJDName)
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if ok {
		t.Fatalf("expected absent for missing row")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreRemove(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}

	mock.ExpectExec("DELETE FROM session_state").
		WithArgs("s1", KeyQALog).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := store.Remove(context.Background(), "s1", KeyQALog); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	mock.ExpectExec("DELETE FROM session_state").
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 5))
	if err := store.RemoveAll(context.Background(), "s1"); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
