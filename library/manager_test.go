package library

import (
	"path/filepath"
	"testing"
	"time"
)

func tempManager(t *testing.T, loanDays int) *LibraryManager {
	t.Helper()
	cfg := Config{
		DatabasePath:   filepath.Join(t.TempDir(), "test.db"),
		LoanPeriodDays: loanDays,
		LogLevel:       "error",
	}
	mgr, err := NewLibraryManager(cfg, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func TestManagerCirculationFlow(t *testing.T) {
	mgr := tempManager(t, 7)

	personID, err := mgr.AddPerson(Person{FirstName: "Alice", LastName: "Reader", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("add person: %v", err)
	}
	itemID, err := mgr.AddItem(Item{Title: "Facade Book", Author: "Author", Type: ItemPrintBook, AvailableCopies: 1})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	txnID, err := mgr.BorrowItem(personID, itemID)
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}

	// The configured loan period reaches the store.
	txn, err := mgr.GetBorrowTransaction(txnID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if want := isoDate(time.Now().AddDate(0, 0, 7)); txn.DueDate != want {
		t.Fatalf("due date: want %s, got %s", want, txn.DueDate)
	}

	if _, err := mgr.ReturnItem(txnID); err != nil {
		t.Fatalf("return: %v", err)
	}

	item, _ := mgr.GetItem(itemID)
	if item.AvailableCopies != 1 || item.Status != StatusAvailable {
		t.Fatalf("item after round trip: %+v", item)
	}
}

func TestManagerEventsAndHelp(t *testing.T) {
	mgr := tempManager(t, 14)

	personID, _ := mgr.AddPerson(Person{FirstName: "Bob", LastName: "Helper", Email: "bob@example.com"})
	roomID, err := mgr.AddRoom("Conference Room", 20)
	if err != nil {
		t.Fatalf("add room: %v", err)
	}
	eventID, err := mgr.AddEvent(Event{Name: "Tech Meetup", Date: "2026-09-29", Audience: AudienceAdults, RoomID: roomID})
	if err != nil {
		t.Fatalf("add event: %v", err)
	}

	if _, err := mgr.RegisterForEvent(personID, eventID); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := mgr.VolunteerForEvent(personID, eventID); err != nil {
		t.Fatalf("volunteer: %v", err)
	}
	if _, err := mgr.AskForHelp(personID, "Where are the journals?", nil); err != nil {
		t.Fatalf("ask for help: %v", err)
	}

	events, err := mgr.FindEvents("Tech")
	if err != nil || len(events) != 1 {
		t.Fatalf("find events: %v (%d)", err, len(events))
	}

	tables, err := mgr.ListTables()
	if err != nil || len(tables) == 0 {
		t.Fatalf("list tables: %v", err)
	}
	if _, rows, err := mgr.DumpTable("event_registrations"); err != nil || len(rows) != 1 {
		t.Fatalf("dump registrations: %v (%d rows)", err, len(rows))
	}
}
