package membership

import (
	"time"

	"parish.org/internal/auth"
)

// SeedDemo fills s with a small sample parish.
func SeedDemo(s MemoryStores) {
	choir, youth := "f-choir", "f-youth"
	now := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
	s.Fellowships.Seed(
		Fellowship{ID: choir, Name: "Choir"},
		Fellowship{ID: youth, Name: "Youth Group"},
	)
	s.Members.Seed(
		Member{ID: "m-001", FirstName: "Alice", LastName: "Smith", Status: "active", FellowshipID: &choir, CreatedAt: now},
		Member{ID: "m-002", FirstName: "Bob", LastName: "Jones", Status: "active", FellowshipID: &youth, CreatedAt: now.Add(24 * time.Hour)},
		Member{ID: "m-003", FirstName: "Carol", LastName: "Smith", Status: "inactive", CreatedAt: now.Add(48 * time.Hour)},
		Member{ID: "m-004", FirstName: "Dan", LastName: "Okafor", Status: "active", FellowshipID: &choir, CreatedAt: now.Add(72 * time.Hour)},
	)
	alice := "m-001"
	s.Envelopes.Seed(
		Envelope{ID: "e-101", Number: 101, MemberID: &alice, Active: true},
		Envelope{ID: "e-102", Number: 102},
	)
	s.Roles.Seed(
		Role{ID: "r-admin", Name: "admin", Actions: auth.Catalogue()},
		Role{ID: "r-clerk", Name: "clerk", Actions: []string{"member.findAll", "member.findById", "envelope.findAll"}},
	)
	s.Users.Seed(User{ID: "u-001", Email: "office@parish.example", Name: "Parish Office", RoleID: "r-admin", Active: true})
	s.Volunteers.Seed(Volunteer{ID: "v-001", Title: "Sunday greeters", FellowshipID: &youth, Slots: 4})
}
