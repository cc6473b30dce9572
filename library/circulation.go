package library

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// BorrowItem checks one copy of an item out to a person. In a single
// transaction it inserts an open borrow record (due in loanPeriodDays),
// decrements available_copies, and flips the item to borrowed when the
// last copy goes out. Returns the new transaction id.
func (d *Database) BorrowItem(personID, itemID int64) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM persons WHERE person_id=?)`, personID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("borrow item: person %d: %w", personID, ErrNotFound)
	}

	var copies int
	err = tx.QueryRow(`SELECT available_copies FROM items WHERE item_id=?`, itemID).Scan(&copies)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("borrow item: item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	if copies == 0 {
		return 0, fmt.Errorf("borrow item: item %d: %w", itemID, ErrNoCopiesAvailable)
	}

	now := time.Now()
	res, err := tx.Exec(
		`INSERT INTO borrow_transactions(person_id, item_id, borrow_date, due_date)
         VALUES(?,?,?,?)`,
		personID, itemID, isoDate(now), isoDate(now.AddDate(0, 0, d.loanPeriodDays)))
	if err != nil {
		return 0, translateErr("borrow item", err)
	}
	txnID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(
		`UPDATE items
         SET available_copies = available_copies - 1,
             status = CASE WHEN available_copies - 1 = 0 THEN 'borrowed' ELSE status END
         WHERE item_id = ?`, itemID); err != nil {
		return 0, translateErr("borrow item", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	d.log.Debug("item borrowed",
		zap.Int64("person_id", personID),
		zap.Int64("item_id", itemID),
		zap.Int64("transaction_id", txnID))
	return txnID, nil
}

// ReturnItem closes an open borrow transaction as of returnDate. The fine
// trigger fires on the same UPDATE, so a reader can never observe a closed
// late transaction with a zero fine. The copy goes back on the shelf and
// the item becomes available. Returns the computed fine.
//
// A missing transaction yields ErrNotFound; a transaction that was already
// closed yields ErrAlreadyReturned and changes nothing.
func (d *Database) ReturnItem(txnID int64, returnDate time.Time) (float64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var itemID int64
	var closed sql.NullString
	err = tx.QueryRow(
		`SELECT item_id, return_date FROM borrow_transactions WHERE transaction_id=?`, txnID).
		Scan(&itemID, &closed)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("return item: transaction %d: %w", txnID, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	if closed.Valid {
		return 0, fmt.Errorf("return item: transaction %d: %w", txnID, ErrAlreadyReturned)
	}

	// The IS NULL guard plus the reclose trigger keep this a one-shot
	// transition even against a racing writer.
	if _, err := tx.Exec(
		`UPDATE borrow_transactions SET return_date=?
         WHERE transaction_id=? AND return_date IS NULL`,
		isoDate(returnDate), txnID); err != nil {
		return 0, translateErr("return item", err)
	}

	if _, err := tx.Exec(
		`UPDATE items SET available_copies = available_copies + 1, status='available'
         WHERE item_id=?`, itemID); err != nil {
		return 0, translateErr("return item", err)
	}

	var fine float64
	if err := tx.QueryRow(
		`SELECT fine FROM borrow_transactions WHERE transaction_id=?`, txnID).Scan(&fine); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	d.log.Debug("item returned",
		zap.Int64("transaction_id", txnID),
		zap.Float64("fine", fine))
	return fine, nil
}

// DonateItem records a donation: a new item with status donated and one
// available copy, plus the linked donation row, inserted atomically.
// An empty location defaults to the donation desk.
func (d *Database) DonateItem(donorID int64, title, author string, year int, itemType ItemType, condition, location string) (int64, error) {
	if location == "" {
		location = "Donation Desk"
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO items(title, author, publication_year, item_type, available_copies, status, location)
         VALUES(?,?,?,?,1,'donated',?)`,
		title, nullIfEmpty(author), nullIfZero(year), string(itemType), location)
	if err != nil {
		return 0, translateErr("donate item", err)
	}
	itemID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(
		`INSERT INTO donations(person_id, item_id, condition) VALUES(?,?,?)`,
		donorID, itemID, nullIfEmpty(condition)); err != nil {
		return 0, translateErr("donate item", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	d.log.Debug("item donated",
		zap.Int64("donor_id", donorID),
		zap.Int64("item_id", itemID))
	return itemID, nil
}

// GetBorrowTransaction fetches a single borrow record.
func (d *Database) GetBorrowTransaction(txnID int64) (*BorrowTransaction, error) {
	var t BorrowTransaction
	var ret sql.NullString
	err := d.db.QueryRow(
		`SELECT transaction_id, person_id, item_id, borrow_date, due_date, return_date, fine
         FROM borrow_transactions WHERE transaction_id=?`, txnID).
		Scan(&t.ID, &t.PersonID, &t.ItemID, &t.BorrowDate, &t.DueDate, &ret, &t.Fine)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get transaction %d: %w", txnID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if ret.Valid {
		t.ReturnDate = ret.String
	}
	return &t, nil
}

// GetDonation fetches the donation row that produced an item.
func (d *Database) GetDonation(itemID int64) (*Donation, error) {
	var dn Donation
	err := d.db.QueryRow(
		`SELECT donation_id, person_id, item_id, donation_date, COALESCE(condition,'')
         FROM donations WHERE item_id=?`, itemID).
		Scan(&dn.ID, &dn.DonorID, &dn.ItemID, &dn.Date, &dn.Condition)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get donation for item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &dn, nil
}
