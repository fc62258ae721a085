package model

import "time"

// Role values stored in users.role.  ADMIN accounts are provisioned
// directly in the database; USER accounts are promoted to ARTIST when
// their artist application is approved.
const (
    RoleUser   = "USER"
    RoleArtist = "ARTIST"
    RoleAdmin  = "ADMIN"
)

// User represents an account in the system.  Passwords are stored as
// bcrypt hashes and never leave the repository layer.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique, normalized to lower case.
//  Name         – display name shown on bookings.
//  PasswordHash – bcrypt hash of the password.
//  Role         – one of USER, ARTIST, ADMIN.
//  IsActive     – soft-delete flag.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    Name         string    // users.name
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
