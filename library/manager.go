package library

import (
	"time"

	"go.uber.org/zap"
)

// LibraryManager is a thin façade over the Database, keeping CLI code simple.
type LibraryManager struct {
	db *Database
}

// NewLibraryManager opens (or creates) the SQLite database named by cfg.
func NewLibraryManager(cfg Config, log *zap.Logger) (*LibraryManager, error) {
	opts := []Option{WithLoanPeriod(cfg.LoanPeriodDays)}
	if log != nil {
		opts = append(opts, WithLogger(log))
	}
	db, err := NewDatabase(cfg.DatabasePath, opts...)
	if err != nil {
		return nil, err
	}
	return &LibraryManager{db: db}, nil
}

// Close closes the underlying database.
func (lm *LibraryManager) Close() error { return lm.db.Close() }

// ------------------ Catalog helpers ------------------

func (lm *LibraryManager) AddItem(it Item) (int64, error)  { return lm.db.AddItem(it) }
func (lm *LibraryManager) GetItem(id int64) (*Item, error) { return lm.db.GetItem(id) }

func (lm *LibraryManager) FindItems(field SearchField, value string) ([]Item, error) {
	return lm.db.FindItems(field, value)
}

// ------------------ Person helpers ------------------

func (lm *LibraryManager) AddPerson(p Person) (int64, error)   { return lm.db.AddPerson(p) }
func (lm *LibraryManager) GetPerson(id int64) (*Person, error) { return lm.db.GetPerson(id) }

func (lm *LibraryManager) AddStaff(personID int64, position string) error {
	return lm.db.AddStaff(personID, position)
}

func (lm *LibraryManager) SetPersonPassword(personID int64, password string) error {
	return lm.db.SetPersonPassword(personID, password)
}

func (lm *LibraryManager) HasPassword(personID int64) (bool, error) {
	return lm.db.HasPassword(personID)
}

func (lm *LibraryManager) AuthenticatePerson(personID int64, password string) error {
	return lm.db.AuthenticatePerson(personID, password)
}

// ------------------ Circulation ------------------

func (lm *LibraryManager) BorrowItem(personID, itemID int64) (int64, error) {
	return lm.db.BorrowItem(personID, itemID)
}

// ReturnItem closes the transaction as of today and yields the fine.
func (lm *LibraryManager) ReturnItem(txnID int64) (float64, error) {
	return lm.db.ReturnItem(txnID, time.Now())
}

func (lm *LibraryManager) ReturnItemOn(txnID int64, returnDate time.Time) (float64, error) {
	return lm.db.ReturnItem(txnID, returnDate)
}

func (lm *LibraryManager) GetBorrowTransaction(txnID int64) (*BorrowTransaction, error) {
	return lm.db.GetBorrowTransaction(txnID)
}

func (lm *LibraryManager) DonateItem(donorID int64, title, author string, year int, itemType ItemType, condition, location string) (int64, error) {
	return lm.db.DonateItem(donorID, title, author, year, itemType, condition, location)
}

// ------------------ Events ------------------

func (lm *LibraryManager) AddRoom(name string, capacity int) (int64, error) {
	return lm.db.AddRoom(name, capacity)
}

func (lm *LibraryManager) AddEvent(e Event) (int64, error) { return lm.db.AddEvent(e) }

func (lm *LibraryManager) FindEvents(name string) ([]Event, error) {
	return lm.db.FindEvents(name)
}

func (lm *LibraryManager) RegisterForEvent(personID, eventID int64) (int64, error) {
	return lm.db.RegisterForEvent(personID, eventID)
}

func (lm *LibraryManager) VolunteerForEvent(personID, eventID int64) (int64, error) {
	return lm.db.VolunteerForEvent(personID, eventID)
}

func (lm *LibraryManager) AskForHelp(personID int64, description string, staffID *int64) (int64, error) {
	return lm.db.AskForHelp(personID, description, staffID)
}

// ------------------ Debug ------------------

func (lm *LibraryManager) ListTables() ([]string, error) { return lm.db.ListTables() }

func (lm *LibraryManager) DumpTable(name string) ([]string, [][]string, error) {
	return lm.db.DumpTable(name)
}
