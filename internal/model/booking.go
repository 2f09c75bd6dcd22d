package model

import (
    "strings"
    "time"
)

// BookingStatus is the lifecycle state of a booking.  The set is
// closed; ParseBookingStatus rejects anything else.
type BookingStatus string

const (
    BookingPending   BookingStatus = "pending"
    BookingAssigned  BookingStatus = "assigned"
    BookingCompleted BookingStatus = "completed"
    BookingCancelled BookingStatus = "cancelled"
)

// transitions lists, for each status, the statuses a booking may move
// to next.  assigned -> assigned is a re-assignment to another worker.
var transitions = map[BookingStatus][]BookingStatus{
    BookingPending:   {BookingAssigned, BookingCancelled},
    BookingAssigned:  {BookingAssigned, BookingCompleted, BookingCancelled},
    BookingCompleted: nil,
    BookingCancelled: nil,
}

// ParseBookingStatus maps a client supplied status string onto the
// enumeration.  Matching ignores case and surrounding whitespace.
func ParseBookingStatus(s string) (BookingStatus, bool) {
    st := BookingStatus(normalize(s))
    if _, ok := transitions[st]; !ok {
        return "", false
    }
    return st, true
}

// CanTransition reports whether a booking in status from may move to
// status to.
func CanTransition(from, to BookingStatus) bool {
    for _, next := range transitions[from] {
        if next == to {
            return true
        }
    }
    return false
}

// Terminal reports whether no further transition is possible.
func (s BookingStatus) Terminal() bool { return len(transitions[s]) == 0 }

// Booking records a customer's request for work at a location on a
// date.  The customer's contact fields are copied from the users row
// when the booking is created and never re-derived.
//
// Fields:
//  ID               – primary key identifier.
//  CustomerID       – user who created the booking.
//  CustomerEmail    – email snapshot.
//  CustomerName     – name snapshot.
//  CustomerPhone    – phone snapshot.
//  Location         – location code.
//  LocationText     – human readable location.
//  Work             – service code from the catalog.
//  WorkText         – human readable work description.
//  Date             – requested date (YYYY-MM-DD).
//  Status           – lifecycle state.
//  WorkerID         – assigned worker (nullable).
//  WorkerAssignedAt – when the current worker was assigned (nullable).
//  EstimatedPrice   – worker's price estimate (nullable).
//  Notes            – worker's notes (nullable).
//  CreatedAt        – creation timestamp.
type Booking struct {
    ID               uint64        `json:"id"`
    CustomerID       uint64        `json:"customer_id"`
    CustomerEmail    string        `json:"customer_email"`
    CustomerName     string        `json:"customer_name"`
    CustomerPhone    string        `json:"customer_phone"`
    Location         string        `json:"location"`
    LocationText     string        `json:"location_text"`
    Work             string        `json:"work"`
    WorkText         string        `json:"work_text"`
    Date             string        `json:"date"`
    Status           BookingStatus `json:"status"`
    WorkerID         *uint64       `json:"worker_id"`
    WorkerAssignedAt *time.Time    `json:"worker_assigned_at"`
    EstimatedPrice   *float64      `json:"estimated_price"`
    Notes            *string       `json:"notes"`
    CreatedAt        time.Time     `json:"created_at"`
}

// BookingView is a booking joined with the assigned worker's display
// name, as shown on the customer and worker dashboards.
type BookingView struct {
    Booking
    WorkerName *string `json:"worker_name"`
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
