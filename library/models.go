package library

// ItemType enumerates the kinds of catalog items the library stocks.
type ItemType string

const (
	ItemPrintBook  ItemType = "print_book"
	ItemOnlineBook ItemType = "online_book"
	ItemMagazine   ItemType = "magazine"
	ItemJournal    ItemType = "journal"
	ItemCD         ItemType = "cd"
	ItemRecord     ItemType = "record"
)

// ItemStatus is the circulation state of an item. It follows
// available_copies at borrow/return time but is set independently on
// donation intake.
type ItemStatus string

const (
	StatusAvailable ItemStatus = "available"
	StatusBorrowed  ItemStatus = "borrowed"
	StatusDonated   ItemStatus = "donated"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "Other"
)

// Role classifies a person. Staff and Volunteer carry 1:1 extension rows
// keyed on the same person id.
type Role string

const (
	RoleMember    Role = "Member"
	RoleStaff     Role = "Staff"
	RoleVolunteer Role = "Volunteer"
)

// Audience is the recommended audience of an event.
type Audience string

const (
	AudienceChildren Audience = "children"
	AudienceAdults   Audience = "adults"
	AudienceBoth     Audience = "both"
)

// Item is a catalog entry (book/magazine/cd/etc.) with a copy count.
type Item struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Publisher       string     `json:"publisher"`
	PublicationYear int        `json:"publication_year"`
	Type            ItemType   `json:"item_type"`
	ISBN            string     `json:"isbn"` // empty when unknown, otherwise unique and 10 or 13 chars
	AvailableCopies int        `json:"available_copies"`
	Status          ItemStatus `json:"status"`
	Location        string     `json:"location"`
}

// Person is any individual known to the library: member, staff, or volunteer.
type Person struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Gender       Gender `json:"gender"`
	BirthDate    string `json:"birth_date"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"` // Don't serialize password hash
}

// Staff is the 1:1 role extension for persons with the Staff role.
type Staff struct {
	PersonID int64  `json:"person_id"`
	Position string `json:"position"`
}

// Volunteer is the 1:1 role extension carrying the participation counter.
// The counter is maintained by a trigger on volunteer_registrations and
// must never be written directly.
type Volunteer struct {
	PersonID           int64 `json:"person_id"`
	ParticipationCount int   `json:"participation_count"`
}

// BorrowTransaction is a borrow record. It is open while ReturnDate is
// empty and closed exactly once when it is set; Fine is computed at that
// transition and never again.
type BorrowTransaction struct {
	ID         int64   `json:"id"`
	PersonID   int64   `json:"person_id"`
	ItemID     int64   `json:"item_id"`
	BorrowDate string  `json:"borrow_date"`
	DueDate    string  `json:"due_date"`
	ReturnDate string  `json:"return_date"` // empty while open
	Fine       float64 `json:"fine"`
}

// Open reports whether the transaction has not been returned yet.
func (t *BorrowTransaction) Open() bool { return t.ReturnDate == "" }

// Donation links a donor to the single item their donation produced.
// Rows are immutable once written.
type Donation struct {
	ID        int64  `json:"id"`
	DonorID   int64  `json:"donor_id"`
	ItemID    int64  `json:"item_id"`
	Date      string `json:"date"`
	Condition string `json:"condition"`
}

// Room hosts events; its capacity bounds event registrations.
type Room struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Event inherits its registration capacity from its room.
type Event struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Description string   `json:"description"`
	Audience    Audience `json:"audience"`
	RoomID      int64    `json:"room_id"`
}

// EventRegistration records one person attending one event.
type EventRegistration struct {
	ID       int64  `json:"id"`
	PersonID int64  `json:"person_id"`
	EventID  int64  `json:"event_id"`
	Date     string `json:"date"`
}

// VolunteerRegistration records one person volunteering for one event.
type VolunteerRegistration struct {
	ID       int64 `json:"id"`
	PersonID int64 `json:"person_id"`
	EventID  int64 `json:"event_id"`
}

// HelpRequest is a member question, optionally assigned to a staff member.
type HelpRequest struct {
	ID          int64  `json:"id"`
	PersonID    int64  `json:"person_id"`
	StaffID     *int64 `json:"staff_id,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
