package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"librarystore/library"
)

func main() {
	var dbPath string

	root := &cobra.Command{
		Use:   "librarystore-seed",
		Short: "Recreate the library database and load the sample fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed(dbPath)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVar(&dbPath, "db", "library.db", "path to the SQLite database")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func seed(dbPath string) error {
	// Clean up any existing database files.
	fmt.Println("Cleaning up existing database files...")
	for _, file := range []string{dbPath, dbPath + "-shm", dbPath + "-wal"} {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}

	cfg, err := library.LoadConfig()
	if err != nil {
		return err
	}
	cfg.DatabasePath = dbPath

	manager, err := library.NewLibraryManager(cfg, library.NewLogger(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	defer manager.Close()

	// Rooms.
	rooms := []struct {
		name     string
		capacity int
	}{
		{"Main Hall", 50},
		{"Conference Room", 20},
		{"Small Meeting Room", 10},
	}
	roomIDs := make([]int64, 0, len(rooms))
	for _, r := range rooms {
		id, err := manager.AddRoom(r.name, r.capacity)
		if err != nil {
			return fmt.Errorf("add room %q: %w", r.name, err)
		}
		roomIDs = append(roomIDs, id)
	}

	// Staff members.
	staff := []struct {
		person   library.Person
		position string
	}{
		{library.Person{FirstName: "Alice", LastName: "Smith", Gender: library.GenderFemale, Email: "alice.smith@library.org", Phone: "123-456-7890", Role: library.RoleStaff}, "librarian"},
		{library.Person{FirstName: "Bob", LastName: "Johnson", Gender: library.GenderMale, Email: "bob.johnson@library.org", Phone: "234-567-8901", Role: library.RoleStaff}, "administrator"},
		{library.Person{FirstName: "Carol", LastName: "Williams", Gender: library.GenderFemale, Email: "carol.williams@library.org", Phone: "345-678-9012", Role: library.RoleStaff}, "librarian"},
	}
	staffIDs := make([]int64, 0, len(staff))
	for _, s := range staff {
		id, err := manager.AddPerson(s.person)
		if err != nil {
			return fmt.Errorf("add staff person: %w", err)
		}
		if err := manager.AddStaff(id, s.position); err != nil {
			return fmt.Errorf("add staff extension: %w", err)
		}
		staffIDs = append(staffIDs, id)
	}

	// Members.
	members := []library.Person{
		{FirstName: "John", LastName: "Doe", Gender: library.GenderMale, Email: "john.doe@example.com", Phone: "111-111-1111", Address: "123 Maple St"},
		{FirstName: "Jane", LastName: "Doe", Gender: library.GenderFemale, Email: "jane.doe@example.com", Phone: "222-222-2222", Address: "456 Oak Ave"},
		{FirstName: "Mike", LastName: "Brown", Gender: library.GenderMale, Email: "mike.brown@example.com", Phone: "333-333-3333", Address: "789 Pine Rd"},
		{FirstName: "Emily", LastName: "Davis", Gender: library.GenderFemale, Email: "emily.davis@example.com", Phone: "444-444-4444", Address: "321 Birch Ln"},
		{FirstName: "David", LastName: "Wilson", Gender: library.GenderMale, Email: "david.wilson@example.com", Phone: "555-555-5555", Address: "654 Cedar Ct"},
		{FirstName: "Sophia", LastName: "Taylor", Gender: library.GenderFemale, Email: "sophia.taylor@example.com", Phone: "666-666-6666", Address: "987 Spruce Dr"},
		{FirstName: "Daniel", LastName: "Anderson", Gender: library.GenderMale, Email: "daniel.anderson@example.com", Phone: "777-777-7777", Address: "159 Elm St"},
		{FirstName: "Olivia", LastName: "Thomas", Gender: library.GenderFemale, Email: "olivia.thomas@example.com", Phone: "888-888-8888", Address: "753 Walnut Ave"},
		{FirstName: "Liam", LastName: "Jackson", Gender: library.GenderMale, Email: "liam.jackson@example.com", Phone: "999-999-9999", Address: "852 Fir Blvd"},
		{FirstName: "Ava", LastName: "White", Gender: library.GenderFemale, Email: "ava.white@example.com", Phone: "000-000-0000", Address: "951 Poplar Rd"},
	}
	memberIDs := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := manager.AddPerson(m)
		if err != nil {
			return fmt.Errorf("add member %s %s: %w", m.FirstName, m.LastName, err)
		}
		memberIDs = append(memberIDs, id)
	}

	// Catalog items.
	items := []library.Item{
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", PublicationYear: 1925, Type: library.ItemPrintBook, AvailableCopies: 3, Location: "Shelf A1"},
		{Title: "1984", Author: "George Orwell", PublicationYear: 1949, Type: library.ItemPrintBook, AvailableCopies: 5, Location: "Shelf A2"},
		{Title: "Digital Fortress", Author: "Dan Brown", PublicationYear: 1998, Type: library.ItemOnlineBook, AvailableCopies: 2, Location: "Online"},
		{Title: "National Geographic", PublicationYear: 2020, Type: library.ItemMagazine, Location: "Shelf B1"},
		{Title: "Science Journal", PublicationYear: 2021, Type: library.ItemJournal, Location: "Shelf C1"},
		{Title: "Greatest Hits", Author: "Various", PublicationYear: 2005, Type: library.ItemCD, Location: "Shelf D1"},
		{Title: "Classic Rock", Author: "Various", PublicationYear: 1995, Type: library.ItemRecord, Location: "Shelf D2"},
		{Title: "Python Programming", Author: "John Zelle", PublicationYear: 2010, Type: library.ItemPrintBook, AvailableCopies: 2, Location: "Shelf A3"},
		{Title: "Modern Art", PublicationYear: 2018, Type: library.ItemMagazine, Location: "Shelf B2"},
		{Title: "The Pragmatic Programmer", Author: "Hunt & Thomas", PublicationYear: 1999, Type: library.ItemPrintBook, ISBN: "9780201616224", AvailableCopies: 2, Location: "Shelf A4"},
	}
	itemCount := 0
	for _, it := range items {
		if _, err := manager.AddItem(it); err != nil {
			fmt.Printf("Warning: add item %q: %v\n", it.Title, err)
			continue
		}
		itemCount++
	}

	// Events.
	events := []library.Event{
		{Name: "Book Club Meeting", Date: "2026-09-10", Time: "18:00", Description: "Monthly book discussion", Audience: library.AudienceAdults, RoomID: roomIDs[0]},
		{Name: "Children Story Time", Date: "2026-09-12", Time: "10:00", Description: "Stories for children", Audience: library.AudienceChildren, RoomID: roomIDs[2]},
		{Name: "Art Show", Date: "2026-09-15", Time: "17:00", Description: "Local art exhibit", Audience: library.AudienceBoth, RoomID: roomIDs[1]},
		{Name: "Film Screening", Date: "2026-09-18", Time: "19:30", Description: "Classic movie screening", Audience: library.AudienceBoth, RoomID: roomIDs[0]},
		{Name: "Sci-Fi Meetup", Date: "2026-09-20", Time: "18:30", Description: "Discussion on science fiction books", Audience: library.AudienceAdults, RoomID: roomIDs[1]},
		{Name: "Photography Workshop", Date: "2026-09-22", Time: "16:00", Description: "Learn the basics of photography", Audience: library.AudienceAdults, RoomID: roomIDs[2]},
		{Name: "Local History Talk", Date: "2026-09-25", Time: "18:00", Description: "Talk about local heritage", Audience: library.AudienceBoth, RoomID: roomIDs[0]},
		{Name: "Poetry Reading", Date: "2026-09-27", Time: "19:00", Description: "Open mic for poetry", Audience: library.AudienceAdults, RoomID: roomIDs[1]},
		{Name: "Tech Meetup", Date: "2026-09-29", Time: "18:30", Description: "Discussion on emerging tech", Audience: library.AudienceAdults, RoomID: roomIDs[0]},
		{Name: "Cooking Demo", Date: "2026-10-01", Time: "15:00", Description: "Demonstration of healthy recipes", Audience: library.AudienceBoth, RoomID: roomIDs[2]},
	}
	eventIDs := make([]int64, 0, len(events))
	for _, e := range events {
		id, err := manager.AddEvent(e)
		if err != nil {
			return fmt.Errorf("add event %q: %w", e.Name, err)
		}
		eventIDs = append(eventIDs, id)
	}

	// Event registrations: each member attends one event.
	for i, personID := range memberIDs {
		if _, err := manager.RegisterForEvent(personID, eventIDs[i%len(eventIDs)]); err != nil {
			fmt.Printf("Warning: register person %d: %v\n", personID, err)
		}
	}

	// Volunteer registrations for the first five members.
	for i := 0; i < 5; i++ {
		if _, err := manager.VolunteerForEvent(memberIDs[i], eventIDs[i]); err != nil {
			fmt.Printf("Warning: volunteer person %d: %v\n", memberIDs[i], err)
		}
	}

	// Help requests, some unassigned.
	helpRequests := []struct {
		member      int
		staff       int // -1 means unassigned
		description string
	}{
		{0, 0, "Need help finding a book on history"},
		{1, 1, "Assistance with borrowing procedure"},
		{2, 0, "Question about fines"},
		{3, -1, "Looking for upcoming events"},
		{4, 1, "Help with the catalog"},
		{5, -1, "Need computer assistance"},
		{6, 2, "Inquiry about volunteering"},
		{7, 0, "Question on new arrivals"},
		{8, 1, "Help with digital resources"},
		{9, 2, "Assistance with research"},
	}
	for _, hr := range helpRequests {
		var staffID *int64
		if hr.staff >= 0 {
			staffID = &staffIDs[hr.staff]
		}
		if _, err := manager.AskForHelp(memberIDs[hr.member], hr.description, staffID); err != nil {
			fmt.Printf("Warning: help request: %v\n", err)
		}
	}

	fmt.Printf("\nSeed complete!\n")
	fmt.Printf("Rooms: %d | Staff: %d | Members: %d | Items: %d | Events: %d\n",
		len(roomIDs), len(staffIDs), len(memberIDs), itemCount, len(eventIDs))

	return nil
}
