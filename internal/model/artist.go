package model

import "time"

// Artist application statuses.
const (
    ArtistPending  = "PENDING"
    ArtistApproved = "APPROVED"
    ArtistRejected = "REJECTED"
)

// Artist records a user's application to become a verified artist and,
// once approved, doubles as the artist profile referenced by concerts.
// A rejected application may be re-submitted; the same row is updated
// rather than inserting a duplicate.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – applicant; one application per user.
//  ArtistName – stage name displayed on concerts.
//  Genre      – musical genre.
//  Country    – country of origin.
//  Bio        – free-form biography.
//  Proof      – description of evidence supporting the application.
//  Status     – PENDING, APPROVED or REJECTED.
//  ReviewNote – optional note left by the reviewing admin.
//  AppliedAt  – when the application was (re-)submitted.
//  ReviewedAt – when an admin last reviewed it, if ever.
type Artist struct {
    ID         uint64     // artists.id
    UserID     uint64     // artists.user_id
    ArtistName string     // artists.artist_name
    Genre      string     // artists.genre
    Country    string     // artists.country
    Bio        string     // artists.bio
    Proof      string     // artists.proof
    Status     string     // artists.status
    ReviewNote *string    // artists.review_note (nullable)
    AppliedAt  time.Time  // artists.applied_at
    ReviewedAt *time.Time // artists.reviewed_at (nullable)
}
