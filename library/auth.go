package library

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SetPersonPassword stores a bcrypt hash of the password for the person.
func (d *Database) SetPersonPassword(personID int64, password string) error {
	if password == "" {
		return fmt.Errorf("set password: password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	res, err := d.db.Exec(
		`UPDATE persons SET password_hash=? WHERE person_id=?`, string(hash), personID)
	if err != nil {
		return translateErr("set password", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("set password: person %d: %w", personID, ErrNotFound)
	}
	return nil
}

// HasPassword reports whether the person has a password set.
func (d *Database) HasPassword(personID int64) (bool, error) {
	var hash sql.NullString
	err := d.db.QueryRow(
		`SELECT password_hash FROM persons WHERE person_id=?`, personID).Scan(&hash)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("has password: person %d: %w", personID, ErrNotFound)
	}
	if err != nil {
		return false, err
	}
	return hash.Valid && hash.String != "", nil
}

// AuthenticatePerson verifies the person's password against the stored hash.
func (d *Database) AuthenticatePerson(personID int64, password string) error {
	var hash sql.NullString
	err := d.db.QueryRow(
		`SELECT password_hash FROM persons WHERE person_id=?`, personID).Scan(&hash)
	if err == sql.ErrNoRows {
		return fmt.Errorf("authenticate: person %d: %w", personID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if !hash.Valid || hash.String == "" {
		return fmt.Errorf("authenticate: person %d has no password set", personID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash.String), []byte(password)); err != nil {
		return fmt.Errorf("authenticate: invalid password")
	}
	return nil
}
