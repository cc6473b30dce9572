package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"librarystore/library"
)

func main() {
	var dbPath string

	root := &cobra.Command{
		Use:   "librarystore",
		Short: "Library management data store",
		Long:  "Interactive menu over the library store: search, circulation, donations, events, volunteering, and help requests.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(dbPath)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVar(&dbPath, "db", "", "path to the SQLite database (overrides config)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(dbPath string) error {
	cfg, err := library.LoadConfig()
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	logger := library.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	manager, err := library.NewLibraryManager(cfg, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer manager.Close()

	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to the Library Management System!")
	printMenu()

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			return nil
		}
		choice := strings.TrimSpace(scanner.Text())

		switch choice {
		case "1":
			handleFindItem(scanner, manager)
		case "2":
			handleBorrow(scanner, manager)
		case "3":
			handleReturn(scanner, manager)
		case "4":
			handleDonate(scanner, manager)
		case "5":
			handleFindEvent(scanner, manager)
		case "6":
			handleRegisterEvent(scanner, manager)
		case "7":
			handleVolunteer(scanner, manager)
		case "8":
			handleAskHelp(scanner, manager)
		case "9", "exit":
			fmt.Println("Goodbye!")
			return nil
		case "check":
			handleCheck(scanner, manager)
		case "menu", "help":
			printMenu()
		default:
			fmt.Println("Unknown choice. Type 'menu' to see the options again.")
		}
	}
}

func printMenu() {
	fmt.Println("Choose an action:")
	fmt.Println("  1. Find an item")
	fmt.Println("  2. Borrow an item")
	fmt.Println("  3. Return an item")
	fmt.Println("  4. Donate an item")
	fmt.Println("  5. Find an event")
	fmt.Println("  6. Register for an event")
	fmt.Println("  7. Volunteer for an event")
	fmt.Println("  8. Ask for help from a librarian")
	fmt.Println("  9. Exit")
	fmt.Println("  (debug) check: list tables or dump one")
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // newline after masked input
	return strings.TrimSpace(string(bytePassword)), nil
}

// authenticate verifies the person's password when one is set.
func authenticate(mgr *library.LibraryManager, personID int64) error {
	hasPassword, err := mgr.HasPassword(personID)
	if err != nil {
		return err
	}
	if !hasPassword {
		return nil
	}
	password, err := readPassword("Enter your password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	return mgr.AuthenticatePerson(personID, password)
}

func promptString(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func promptID(sc *bufio.Scanner, label string) (int64, bool) {
	s, ok := promptString(sc, label)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fmt.Printf("Invalid id: %s\n", s)
		return 0, false
	}
	return id, true
}

func handleFindItem(sc *bufio.Scanner, mgr *library.LibraryManager) {
	field, ok := promptString(sc, "Search field (title/author/publisher/isbn/item_type): ")
	if !ok {
		return
	}
	query, ok := promptString(sc, "Search text: ")
	if !ok {
		return
	}

	items, err := mgr.FindItems(library.SearchField(field), query)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(items) == 0 {
		fmt.Printf("No items found matching '%s'.\n", query)
		return
	}

	fmt.Printf("%-5s %-30s %-20s %-12s %-7s %-10s\n", "ID", "Title", "Author", "Type", "Copies", "Status")
	fmt.Println(strings.Repeat("-", 90))
	for _, it := range items {
		fmt.Printf("%-5d %-30s %-20s %-12s %-7d %-10s\n",
			it.ID, truncateString(it.Title, 30), truncateString(it.Author, 20),
			it.Type, it.AvailableCopies, it.Status)
	}
}

func handleBorrow(sc *bufio.Scanner, mgr *library.LibraryManager) {
	personID, ok := promptID(sc, "Person ID: ")
	if !ok {
		return
	}
	itemID, ok := promptID(sc, "Item ID: ")
	if !ok {
		return
	}

	if err := authenticate(mgr, personID); err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		return
	}

	txnID, err := mgr.BorrowItem(personID, itemID)
	if err != nil {
		fmt.Printf("Error borrowing item: %v\n", err)
		return
	}

	item, _ := mgr.GetItem(itemID)
	txn, _ := mgr.GetBorrowTransaction(txnID)
	fmt.Printf("Borrowed '%s' (transaction %d, due %s).\n", item.Title, txnID, txn.DueDate)
}

func handleReturn(sc *bufio.Scanner, mgr *library.LibraryManager) {
	txnID, ok := promptID(sc, "Transaction ID: ")
	if !ok {
		return
	}

	txn, err := mgr.GetBorrowTransaction(txnID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if err := authenticate(mgr, txn.PersonID); err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		return
	}

	fine, err := mgr.ReturnItem(txnID)
	if err != nil {
		fmt.Printf("Error returning item: %v\n", err)
		return
	}
	if fine > 0 {
		fmt.Printf("Item returned. Late fine: %.2f\n", fine)
	} else {
		fmt.Println("Item returned on time. No fine.")
	}
}

func handleDonate(sc *bufio.Scanner, mgr *library.LibraryManager) {
	donorID, ok := promptID(sc, "Donor person ID: ")
	if !ok {
		return
	}
	title, ok := promptString(sc, "Title: ")
	if !ok {
		return
	}
	author, ok := promptString(sc, "Author (optional): ")
	if !ok {
		return
	}
	yearStr, ok := promptString(sc, "Publication year (optional): ")
	if !ok {
		return
	}
	year := 0
	if yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			fmt.Printf("Invalid year: %s\n", yearStr)
			return
		}
		year = y
	}
	itemType, ok := promptString(sc, "Item type (print_book/online_book/magazine/journal/cd/record): ")
	if !ok {
		return
	}
	condition, ok := promptString(sc, "Condition: ")
	if !ok {
		return
	}

	itemID, err := mgr.DonateItem(donorID, title, author, year, library.ItemType(itemType), condition, "")
	if err != nil {
		fmt.Printf("Error donating item: %v\n", err)
		return
	}
	fmt.Printf("Donation recorded. New item ID %d.\n", itemID)
}

func handleFindEvent(sc *bufio.Scanner, mgr *library.LibraryManager) {
	query, ok := promptString(sc, "Event name (empty lists all): ")
	if !ok {
		return
	}

	events, err := mgr.FindEvents(query)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(events) == 0 {
		fmt.Println("No events found.")
		return
	}

	fmt.Printf("%-5s %-30s %-12s %-8s %-10s %-5s\n", "ID", "Name", "Date", "Time", "Audience", "Room")
	fmt.Println(strings.Repeat("-", 75))
	for _, e := range events {
		fmt.Printf("%-5d %-30s %-12s %-8s %-10s %-5d\n",
			e.ID, truncateString(e.Name, 30), e.Date, e.Time, e.Audience, e.RoomID)
	}
}

func handleRegisterEvent(sc *bufio.Scanner, mgr *library.LibraryManager) {
	personID, ok := promptID(sc, "Person ID: ")
	if !ok {
		return
	}
	eventID, ok := promptID(sc, "Event ID: ")
	if !ok {
		return
	}

	if _, err := mgr.RegisterForEvent(personID, eventID); err != nil {
		fmt.Printf("Error registering for event: %v\n", err)
		return
	}
	fmt.Println("Registered for event successfully.")
}

func handleVolunteer(sc *bufio.Scanner, mgr *library.LibraryManager) {
	personID, ok := promptID(sc, "Person ID: ")
	if !ok {
		return
	}
	eventID, ok := promptID(sc, "Event ID: ")
	if !ok {
		return
	}

	if _, err := mgr.VolunteerForEvent(personID, eventID); err != nil {
		fmt.Printf("Error in volunteer registration: %v\n", err)
		return
	}
	fmt.Println("Volunteer registration successful.")
}

func handleAskHelp(sc *bufio.Scanner, mgr *library.LibraryManager) {
	personID, ok := promptID(sc, "Person ID: ")
	if !ok {
		return
	}
	description, ok := promptString(sc, "Describe what you need help with: ")
	if !ok {
		return
	}
	staffStr, ok := promptString(sc, "Librarian ID (optional): ")
	if !ok {
		return
	}
	var staffID *int64
	if staffStr != "" {
		id, err := strconv.ParseInt(staffStr, 10, 64)
		if err != nil {
			fmt.Printf("Invalid librarian ID: %s\n", staffStr)
			return
		}
		staffID = &id
	}

	requestID, err := mgr.AskForHelp(personID, description, staffID)
	if err != nil {
		fmt.Printf("Error submitting help request: %v\n", err)
		return
	}
	fmt.Printf("Help request %d submitted (status: pending).\n", requestID)
}

func handleCheck(sc *bufio.Scanner, mgr *library.LibraryManager) {
	name, ok := promptString(sc, "Table name (empty lists tables): ")
	if !ok {
		return
	}

	if name == "" {
		tables, err := mgr.ListTables()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Println("Tables:")
		for _, t := range tables {
			fmt.Printf("  %s\n", t)
		}
		return
	}

	cols, rows, err := mgr.DumpTable(name)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(strings.Join(cols, " | "))
	fmt.Println(strings.Repeat("-", 8*len(cols)))
	for _, row := range rows {
		fmt.Println(strings.Join(row, " | "))
	}
	fmt.Printf("(%d rows)\n", len(rows))
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
