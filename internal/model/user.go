package model

import "time"

// Role is the account type of a user.  A user is either a customer who
// books work or a worker who takes bookings.
type Role string

const (
    RoleCustomer Role = "customer"
    RoleWorker   Role = "worker"
)

// ParseRole normalises a role name.  It reports false for anything
// other than customer or worker.
func ParseRole(s string) (Role, bool) {
    switch Role(normalize(s)) {
    case RoleCustomer:
        return RoleCustomer, true
    case RoleWorker:
        return RoleWorker, true
    }
    return "", false
}

// User represents an application user record as stored in the
// `users` table.  Name and phone are the contact details that get
// snapshotted onto a booking when a customer creates one.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – customer or worker.
//  Name         – display name.
//  Phone        – contact phone number.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         Role      // users.role
    Name         string    // users.name
    Phone        string    // users.phone
    CreatedAt    time.Time // users.created_at
}

// WorkerProfile models a row in the `workers` table.  Each worker
// account has exactly one profile describing the service it offers.
type WorkerProfile struct {
    ID         uint64    // workers.id
    UserID     uint64    // workers.user_id
    Service    string    // workers.service
    Experience string    // workers.experience
    CreatedAt  time.Time // workers.created_at
}

// WorkerListing is a worker profile joined with its user's display
// name and the aggregate of the reviews it has received.
type WorkerListing struct {
    UserID        uint64  `json:"worker_id"`
    Name          string  `json:"name"`
    Service       string  `json:"service"`
    Experience    string  `json:"experience"`
    AverageRating float64 `json:"average_rating"`
    ReviewCount   int     `json:"review_count"`
}
