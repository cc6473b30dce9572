package library

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addEventInRoom(t *testing.T, db *Database, name string, capacity int) int64 {
	t.Helper()
	roomID, err := db.AddRoom(name+" room", capacity)
	require.NoError(t, err)
	eventID, err := db.AddEvent(Event{Name: name, Date: "2026-09-10", Audience: AudienceBoth, RoomID: roomID})
	require.NoError(t, err)
	return eventID
}

func addMembers(t *testing.T, db *Database, n int) []int64 {
	t.Helper()
	ids := make([]int64, n)
	for i := range ids {
		id, err := db.AddPerson(Person{
			FirstName: fmt.Sprintf("Member%d", i),
			LastName:  "Test",
			Email:     fmt.Sprintf("member%d@example.com", i),
		})
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

func TestRegisterForEvent(t *testing.T) {
	db := tempDB(t)
	eventID := addEventInRoom(t, db, "Book Club", 10)
	people := addMembers(t, db, 2)

	regID, err := db.RegisterForEvent(people[0], eventID)
	require.NoError(t, err)
	assert.NotZero(t, regID)

	count, err := db.CountEventRegistrations(eventID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = db.RegisterForEvent(99999, eventID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.RegisterForEvent(people[1], 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCapacityGuardMainHall(t *testing.T) {
	db := tempDB(t)

	roomID, err := db.AddRoom("Main Hall", 50)
	require.NoError(t, err)
	eventID, err := db.AddEvent(Event{Name: "Film Screening", Date: "2026-09-18", Audience: AudienceBoth, RoomID: roomID})
	require.NoError(t, err)

	people := addMembers(t, db, 51)
	for i := 0; i < 50; i++ {
		_, err := db.RegisterForEvent(people[i], eventID)
		require.NoError(t, err, "registration %d of 50 should fit", i+1)
	}

	// The 51st is rejected and the count stays at capacity.
	_, err = db.RegisterForEvent(people[50], eventID)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	count, err := db.CountEventRegistrations(eventID)
	require.NoError(t, err)
	assert.Equal(t, 50, count)
}

func TestCapacityGuardUnderConcurrency(t *testing.T) {
	db := tempDB(t)
	const capacity = 5
	const contenders = 20

	eventID := addEventInRoom(t, db, "Popular Workshop", capacity)
	people := addMembers(t, db, contenders)

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = db.RegisterForEvent(people[i], eventID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrCapacityExceeded)
	}
	assert.Equal(t, capacity, succeeded)

	count, err := db.CountEventRegistrations(eventID)
	require.NoError(t, err)
	assert.Equal(t, capacity, count)
}

func TestVolunteerParticipationCounter(t *testing.T) {
	db := tempDB(t)
	people := addMembers(t, db, 1)
	personID := people[0]

	const n = 4
	for i := 0; i < n; i++ {
		eventID := addEventInRoom(t, db, fmt.Sprintf("Event %d", i), 10)
		_, err := db.VolunteerForEvent(personID, eventID)
		require.NoError(t, err)

		v, err := db.GetVolunteer(personID)
		require.NoError(t, err)
		assert.Equal(t, i+1, v.ParticipationCount, "each registration increments by exactly 1")
	}

	v, err := db.GetVolunteer(personID)
	require.NoError(t, err)
	assert.Equal(t, n, v.ParticipationCount)
}

func TestVolunteerForEventUnknownIDs(t *testing.T) {
	db := tempDB(t)
	eventID := addEventInRoom(t, db, "Cleanup", 10)
	people := addMembers(t, db, 1)

	_, err := db.VolunteerForEvent(99999, eventID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.VolunteerForEvent(people[0], 99999)
	assert.ErrorIs(t, err, ErrNotFound)

	// A failed registration must not leave a counter behind.
	_, err = db.GetVolunteer(people[0])
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindEvents(t *testing.T) {
	db := tempDB(t)
	addEventInRoom(t, db, "Art Show", 10)
	addEventInRoom(t, db, "Poetry Reading", 10)
	addEventInRoom(t, db, "Art History Talk", 10)

	events, err := db.FindEvents("Art")
	require.NoError(t, err)
	assert.Len(t, events, 2)

	// Empty query lists everything.
	events, err = db.FindEvents("")
	require.NoError(t, err)
	assert.Len(t, events, 3)

	events, err = db.FindEvents("Chess")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestAskForHelp(t *testing.T) {
	db := tempDB(t)
	people := addMembers(t, db, 1)
	personID := people[0]

	// Unassigned request.
	reqID, err := db.AskForHelp(personID, "Need help finding a book on history", nil)
	require.NoError(t, err)

	hr, err := db.GetHelpRequest(reqID)
	require.NoError(t, err)
	assert.Equal(t, "pending", hr.Status)
	assert.Nil(t, hr.StaffID)

	// Assigned to a librarian.
	staffID, err := db.AddPerson(Person{FirstName: "Alice", LastName: "Smith", Email: "alice.smith@library.org", Role: RoleStaff})
	require.NoError(t, err)
	require.NoError(t, db.AddStaff(staffID, "librarian"))

	reqID, err = db.AskForHelp(personID, "Question about fines", &staffID)
	require.NoError(t, err)
	hr, err = db.GetHelpRequest(reqID)
	require.NoError(t, err)
	require.NotNil(t, hr.StaffID)
	assert.Equal(t, staffID, *hr.StaffID)

	// Assignment must point at an actual staff extension row.
	bogus := int64(12345)
	_, err = db.AskForHelp(personID, "Ghost librarian", &bogus)
	assert.ErrorIs(t, err, ErrNotFound)

	// Requester must exist.
	_, err = db.AskForHelp(99999, "Nobody home", nil)
	assert.True(t, errors.Is(err, ErrNotFound))
}
