package library

import (
	"errors"
	"path/filepath"
	"testing"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func addMember(t *testing.T, db *Database, first, email string) int64 {
	t.Helper()
	id, err := db.AddPerson(Person{FirstName: first, LastName: "Test", Email: email})
	if err != nil {
		t.Fatalf("add person: %v", err)
	}
	return id
}

func addBook(t *testing.T, db *Database, title string, copies int) int64 {
	t.Helper()
	id, err := db.AddItem(Item{Title: title, Author: "Author", Type: ItemPrintBook, AvailableCopies: copies})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	return id
}

func TestEnumChecksRejectBadValues(t *testing.T) {
	db := tempDB(t)

	if _, err := db.AddItem(Item{Title: "Bad", Type: "papyrus_scroll"}); err == nil {
		t.Fatalf("expected item_type CHECK violation")
	} else {
		var cerr *ConstraintError
		if !errors.As(err, &cerr) {
			t.Fatalf("want ConstraintError, got %v", err)
		}
	}

	if _, err := db.AddPerson(Person{FirstName: "X", LastName: "Y", Email: "x@y.z", Gender: "unknown"}); err == nil {
		t.Fatalf("expected gender CHECK violation")
	}

	if _, err := db.AddPerson(Person{FirstName: "X", LastName: "Y", Email: "x2@y.z", Role: "Admin"}); err == nil {
		t.Fatalf("expected role CHECK violation")
	}
}

func TestISBNLengthAndUniqueness(t *testing.T) {
	db := tempDB(t)

	// Length must be 10 or 13.
	if _, err := db.AddItem(Item{Title: "Bad ISBN", Type: ItemPrintBook, ISBN: "12345"}); err == nil {
		t.Fatalf("expected isbn length CHECK violation")
	}

	if _, err := db.AddItem(Item{Title: "Ten", Type: ItemPrintBook, ISBN: "0123456789"}); err != nil {
		t.Fatalf("10-char isbn should be accepted: %v", err)
	}
	if _, err := db.AddItem(Item{Title: "Thirteen", Type: ItemPrintBook, ISBN: "9780201616224"}); err != nil {
		t.Fatalf("13-char isbn should be accepted: %v", err)
	}

	// Duplicates rejected.
	if _, err := db.AddItem(Item{Title: "Dup", Type: ItemPrintBook, ISBN: "9780201616224"}); err == nil {
		t.Fatalf("expected isbn UNIQUE violation")
	}

	// Absent ISBN is fine, repeatedly (NULLs don't collide).
	if _, err := db.AddItem(Item{Title: "No ISBN 1", Type: ItemMagazine}); err != nil {
		t.Fatalf("nil isbn: %v", err)
	}
	if _, err := db.AddItem(Item{Title: "No ISBN 2", Type: ItemMagazine}); err != nil {
		t.Fatalf("second nil isbn: %v", err)
	}
}

func TestForeignKeysRejectOrphansAndDeletes(t *testing.T) {
	db := tempDB(t)
	personID := addMember(t, db, "Alice", "alice@example.com")
	itemID := addBook(t, db, "Referenced", 1)

	// Orphan reference fails and maps to ErrNotFound.
	if _, err := db.DonateItem(99999, "Ghost", "", 0, ItemPrintBook, "fine", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing donor, got %v", err)
	}

	// Deleting a referenced row fails: no cascading is configured.
	if _, err := db.BorrowItem(personID, itemID); err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if _, err := db.db.Exec(`DELETE FROM persons WHERE person_id=?`, personID); err == nil {
		t.Fatalf("expected FK violation deleting referenced person")
	}
	if _, err := db.db.Exec(`DELETE FROM items WHERE item_id=?`, itemID); err == nil {
		t.Fatalf("expected FK violation deleting referenced item")
	}
}

func TestFindItemsAllowList(t *testing.T) {
	db := tempDB(t)
	addBook(t, db, "The Go Programming Language", 2)
	addBook(t, db, "Learning SQL", 1)

	// Unknown field is rejected before any SQL is built.
	if _, err := db.FindItems("available_copies; DROP TABLE items", "x"); !errors.Is(err, ErrInvalidColumn) {
		t.Fatalf("want ErrInvalidColumn, got %v", err)
	}
	if _, err := db.FindItems("location", "Shelf"); !errors.Is(err, ErrInvalidColumn) {
		t.Fatalf("location is not searchable, got %v", err)
	}

	items, err := db.FindItems(SearchTitle, "Go")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(items) != 1 || items[0].Title != "The Go Programming Language" {
		t.Fatalf("want 1 match on title, got %+v", items)
	}

	// Substring match anywhere in the value.
	items, err = db.FindItems(SearchTitle, "SQL")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 match, got %d", len(items))
	}

	items, err = db.FindItems(SearchType, "print")
	if err != nil {
		t.Fatalf("find by type: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 print books, got %d", len(items))
	}
}

func TestListAndDumpTables(t *testing.T) {
	db := tempDB(t)
	addBook(t, db, "Dumpable", 1)

	tables, err := db.ListTables()
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	want := map[string]bool{"items": false, "persons": false, "events": false}
	for _, name := range tables {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("table %s missing from listing %v", name, tables)
		}
	}

	cols, rows, err := db.DumpTable("items")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if len(cols) == 0 || len(rows) != 1 {
		t.Fatalf("want 1 item row, got cols=%v rows=%d", cols, len(rows))
	}

	if _, _, err := db.DumpTable("sqlite_master"); !errors.Is(err, ErrInvalidColumn) {
		t.Fatalf("non-allow-listed table must be rejected, got %v", err)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	db := tempDB(t)
	personID := addMember(t, db, "Alice", "alice@example.com")

	has, err := db.HasPassword(personID)
	if err != nil || has {
		t.Fatalf("fresh person should have no password (has=%v err=%v)", has, err)
	}

	if err := db.SetPersonPassword(personID, "s3cret"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	has, _ = db.HasPassword(personID)
	if !has {
		t.Fatalf("password should be set")
	}

	if err := db.AuthenticatePerson(personID, "s3cret"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := db.AuthenticatePerson(personID, "wrong"); err == nil {
		t.Fatalf("expected auth failure with wrong password")
	}

	if err := db.SetPersonPassword(99999, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing person, got %v", err)
	}
}
