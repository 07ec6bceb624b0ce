// Package membership holds the church membership entities and the guarded
// managers that front their repositories.
package membership

import (
	"time"

	"parish.org/internal/ids"
)

// Member is a person on the parish roll.
type Member struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Status       string    `json:"status,omitempty"`
	FellowshipID *string   `json:"fellowshipId,omitempty"`
	EnvelopeID   *string   `json:"envelopeId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (m Member) EntityID() string { return m.ID }

// WithID sets the id. A member without a creation time takes the one
// encoded in a generated id.
func (m Member) WithID(id string) Member {
	m.ID = id
	if m.CreatedAt.IsZero() {
		if at, ok := ids.Time(id); ok {
			m.CreatedAt = at
		}
	}
	return m
}

// FullName joins the first and last name.
func (m Member) FullName() string {
	switch {
	case m.FirstName == "":
		return m.LastName
	case m.LastName == "":
		return m.FirstName
	default:
		return m.FirstName + " " + m.LastName
	}
}

// Fellowship is a small group members belong to.
type Fellowship struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	LeaderID    *string `json:"leaderId,omitempty"`
}

func (f Fellowship) EntityID() string { return f.ID }

func (f Fellowship) WithID(id string) Fellowship {
	f.ID = id
	return f
}

// Envelope is a numbered giving envelope, optionally assigned to a member.
type Envelope struct {
	ID       string  `json:"id"`
	Number   int     `json:"number"`
	MemberID *string `json:"memberId,omitempty"`
	Active   bool    `json:"active"`
}

func (e Envelope) EntityID() string { return e.ID }

func (e Envelope) WithID(id string) Envelope {
	e.ID = id
	return e
}

// Role groups permission tokens granted to users.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Actions     []string `json:"actions"`
}

func (r Role) EntityID() string { return r.ID }

func (r Role) WithID(id string) Role {
	r.ID = id
	return r
}

// User is an administrator account.
type User struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Name     string  `json:"name,omitempty"`
	RoleID   string  `json:"roleId"`
	MemberID *string `json:"memberId,omitempty"`
	Active   bool    `json:"active"`
}

func (u User) EntityID() string { return u.ID }

func (u User) WithID(id string) User {
	u.ID = id
	return u
}

// Volunteer is a volunteer opportunity members can sign up for.
type Volunteer struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	FellowshipID *string    `json:"fellowshipId,omitempty"`
	Slots        int        `json:"slots"`
	StartsAt     *time.Time `json:"startsAt,omitempty"`
}

func (v Volunteer) EntityID() string { return v.ID }

func (v Volunteer) WithID(id string) Volunteer {
	v.ID = id
	return v
}
