package library

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// FindEvents returns events whose name contains the query as a substring.
// An empty query lists all events.
func (d *Database) FindEvents(name string) ([]Event, error) {
	rows, err := d.db.Query(
		`SELECT event_id, event_name, event_date, COALESCE(event_time,''),
            COALESCE(event_description,''), COALESCE(audience,''), room_id
         FROM events WHERE event_name LIKE ? ORDER BY event_date, event_id`,
		"%"+name+"%")
	if err != nil {
		return nil, translateErr("find events", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Date, &e.Time,
			&e.Description, &e.Audience, &e.RoomID); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// RegisterForEvent registers a person for an event. The capacity guard
// trigger recounts registrations inside the INSERT, so the check and the
// write are one atomic step; a full event yields ErrCapacityExceeded and
// no row.
func (d *Database) RegisterForEvent(personID, eventID int64) (int64, error) {
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
		return 0, fmt.Errorf("register for event: person %d: %w", personID, ErrNotFound)
	}
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM events WHERE event_id=?)`, eventID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("register for event: event %d: %w", eventID, ErrNotFound)
	}

	res, err := tx.Exec(
		`INSERT INTO event_registrations(person_id, event_id) VALUES(?,?)`,
		personID, eventID)
	if err != nil {
		return 0, translateErr("register for event", err)
	}
	regID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	d.log.Debug("event registration",
		zap.Int64("person_id", personID),
		zap.Int64("event_id", eventID))
	return regID, nil
}

// CountEventRegistrations returns the current registration count of an event.
func (d *Database) CountEventRegistrations(eventID int64) (int, error) {
	var n int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM event_registrations WHERE event_id=?`, eventID).Scan(&n)
	return n, err
}

// VolunteerForEvent signs a person up to help at an event. The volunteer
// extension row is created on first use; the participation counter is
// incremented by the insert trigger, in the same transaction as the
// registration itself.
func (d *Database) VolunteerForEvent(personID, eventID int64) (int64, error) {
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
		return 0, fmt.Errorf("volunteer for event: person %d: %w", personID, ErrNotFound)
	}
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM events WHERE event_id=?)`, eventID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("volunteer for event: event %d: %w", eventID, ErrNotFound)
	}

	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO volunteers(person_id) VALUES(?)`, personID); err != nil {
		return 0, translateErr("volunteer for event", err)
	}

	res, err := tx.Exec(
		`INSERT INTO volunteer_registrations(person_id, event_id) VALUES(?,?)`,
		personID, eventID)
	if err != nil {
		return 0, translateErr("volunteer for event", err)
	}
	regID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	d.log.Debug("volunteer registration",
		zap.Int64("person_id", personID),
		zap.Int64("event_id", eventID))
	return regID, nil
}

// AskForHelp files a help request, optionally assigned to a staff member,
// with status pending. Returns the new request id.
func (d *Database) AskForHelp(personID int64, description string, staffID *int64) (int64, error) {
	var staff any
	if staffID != nil {
		staff = *staffID
	}
	res, err := d.db.Exec(
		`INSERT INTO help_requests(person_id, staff_id, description) VALUES(?,?,?)`,
		personID, staff, description)
	if err != nil {
		return 0, translateErr("ask for help", err)
	}
	return res.LastInsertId()
}

// GetHelpRequest fetches a single help request.
func (d *Database) GetHelpRequest(id int64) (*HelpRequest, error) {
	var hr HelpRequest
	var staff sql.NullInt64
	err := d.db.QueryRow(
		`SELECT request_id, person_id, staff_id, request_date, description, status
         FROM help_requests WHERE request_id=?`, id).
		Scan(&hr.ID, &hr.PersonID, &staff, &hr.Date, &hr.Description, &hr.Status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get help request %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if staff.Valid {
		hr.StaffID = &staff.Int64
	}
	return &hr, nil
}
