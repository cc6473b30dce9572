package library

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// SearchField names an items column FindItems may match against.
type SearchField string

const (
	SearchTitle     SearchField = "title"
	SearchAuthor    SearchField = "author"
	SearchPublisher SearchField = "publisher"
	SearchISBN      SearchField = "isbn"
	SearchType      SearchField = "item_type"
)

// searchableFields is the fixed allow-list; a field is validated against it
// before any SQL is built.
var searchableFields = map[SearchField]bool{
	SearchTitle:     true,
	SearchAuthor:    true,
	SearchPublisher: true,
	SearchISBN:      true,
	SearchType:      true,
}

const itemColumns = `item_id, title, COALESCE(author,''), COALESCE(publisher,''),
    COALESCE(publication_year,0), item_type, COALESCE(isbn,''),
    available_copies, status, COALESCE(location,'')`

func scanItem(row interface{ Scan(...any) error }) (*Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Title, &it.Author, &it.Publisher,
		&it.PublicationYear, &it.Type, &it.ISBN,
		&it.AvailableCopies, &it.Status, &it.Location)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

// AddItem inserts a catalog item and returns its id. Zero/empty optional
// fields are stored as NULL; AvailableCopies defaults to 1 and Status to
// available when unset.
func (d *Database) AddItem(it Item) (int64, error) {
	if it.AvailableCopies == 0 {
		it.AvailableCopies = 1
	}
	if it.Status == "" {
		it.Status = StatusAvailable
	}
	res, err := d.addItemStmt.Exec(it.Title, nullIfEmpty(it.Author), nullIfEmpty(it.Publisher),
		nullIfZero(it.PublicationYear), string(it.Type), nullIfEmpty(it.ISBN),
		it.AvailableCopies, string(it.Status), nullIfEmpty(it.Location))
	if err != nil {
		return 0, translateErr("add item", err)
	}
	return res.LastInsertId()
}

// GetItem fetches a single item.
func (d *Database) GetItem(id int64) (*Item, error) {
	it, err := scanItem(d.db.QueryRow(
		`SELECT `+itemColumns+` FROM items WHERE item_id=?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

// FindItems returns items whose field contains value as a substring
// (wildcard-wrapped LIKE, so matching is case-insensitive for ASCII).
// Fields outside the allow-list fail with ErrInvalidColumn.
func (d *Database) FindItems(field SearchField, value string) ([]Item, error) {
	if !searchableFields[field] {
		return nil, fmt.Errorf("find items: field %q: %w", string(field), ErrInvalidColumn)
	}

	query := fmt.Sprintf(`SELECT `+itemColumns+` FROM items WHERE %s LIKE ? ORDER BY item_id`, field)
	rows, err := d.db.Query(query, "%"+value+"%")
	if err != nil {
		return nil, translateErr("find items", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// ---------------------------------------------------------------------------
// Persons and role extensions
// ---------------------------------------------------------------------------

// AddPerson inserts a person and returns their id. Role defaults to Member.
func (d *Database) AddPerson(p Person) (int64, error) {
	if p.Role == "" {
		p.Role = RoleMember
	}
	res, err := d.addPersonStmt.Exec(p.FirstName, p.LastName,
		nullIfEmpty(string(p.Gender)), nullIfEmpty(p.BirthDate),
		p.Email, nullIfEmpty(p.Phone), nullIfEmpty(p.Address), string(p.Role))
	if err != nil {
		return 0, translateErr("add person", err)
	}
	return res.LastInsertId()
}

// GetPerson fetches a single person.
func (d *Database) GetPerson(id int64) (*Person, error) {
	var p Person
	err := d.db.QueryRow(
		`SELECT person_id, first_name, last_name, COALESCE(gender,''),
            COALESCE(birth_date,''), email, COALESCE(phone,''),
            COALESCE(address,''), role, COALESCE(password_hash,'')
         FROM persons WHERE person_id=?`, id).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.Gender, &p.BirthDate,
			&p.Email, &p.Phone, &p.Address, &p.Role, &p.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get person %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AddStaff attaches the staff extension to an existing person.
func (d *Database) AddStaff(personID int64, position string) error {
	if _, err := d.db.Exec(
		`INSERT INTO staff(person_id, position) VALUES(?,?)`, personID, position); err != nil {
		return translateErr("add staff", err)
	}
	return nil
}

// GetVolunteer fetches the volunteer extension row for a person.
func (d *Database) GetVolunteer(personID int64) (*Volunteer, error) {
	var v Volunteer
	err := d.db.QueryRow(
		`SELECT person_id, participation_count FROM volunteers WHERE person_id=?`, personID).
		Scan(&v.PersonID, &v.ParticipationCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get volunteer %d: %w", personID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ---------------------------------------------------------------------------
// Rooms and events
// ---------------------------------------------------------------------------

// AddRoom inserts a room; capacity must be positive (enforced by CHECK).
func (d *Database) AddRoom(name string, capacity int) (int64, error) {
	res, err := d.db.Exec(
		`INSERT INTO rooms(room_name, capacity) VALUES(?,?)`, name, capacity)
	if err != nil {
		return 0, translateErr("add room", err)
	}
	return res.LastInsertId()
}

// AddEvent inserts an event hosted in an existing room.
func (d *Database) AddEvent(e Event) (int64, error) {
	res, err := d.db.Exec(
		`INSERT INTO events(event_name, event_date, event_time, event_description, audience, room_id)
         VALUES(?,?,?,?,?,?)`,
		e.Name, e.Date, nullIfEmpty(e.Time), nullIfEmpty(e.Description),
		nullIfEmpty(string(e.Audience)), e.RoomID)
	if err != nil {
		return 0, translateErr("add event", err)
	}
	return res.LastInsertId()
}

// ---------------------------------------------------------------------------
// Debug table dump (the CLI "check" command)
// ---------------------------------------------------------------------------

// dumpableTables is the allow-list for DumpTable.
var dumpableTables = map[string]bool{
	"items":                   true,
	"persons":                 true,
	"staff":                   true,
	"volunteers":              true,
	"borrow_transactions":     true,
	"donations":               true,
	"rooms":                   true,
	"events":                  true,
	"event_registrations":     true,
	"volunteer_registrations": true,
	"help_requests":           true,
}

// ListTables returns the user table names in the store.
func (d *Database) ListTables() ([]string, error) {
	rows, err := d.db.Query(
		`SELECT name FROM sqlite_master
         WHERE type='table' AND name NOT LIKE 'sqlite_%' AND name != 'meta'
         ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DumpTable returns the column names and stringified rows of one table.
// The name is validated against the table allow-list, never interpolated raw.
func (d *Database) DumpTable(name string) ([]string, [][]string, error) {
	if !dumpableTables[name] {
		return nil, nil, fmt.Errorf("dump table: %q: %w", name, ErrInvalidColumn)
	}

	rows, err := d.db.Query(fmt.Sprintf(`SELECT * FROM %s`, name))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	d.log.Debug("table dumped", zap.String("table", name), zap.Int("rows", len(out)))
	return cols, out, nil
}
