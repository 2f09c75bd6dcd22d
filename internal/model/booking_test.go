package model

import "testing"

func TestParseBookingStatus(t *testing.T) {
    cases := map[string]BookingStatus{
        "pending":     BookingPending,
        " Assigned ":  BookingAssigned,
        "COMPLETED":   BookingCompleted,
        "cancelled":   BookingCancelled,
    }
    for in, want := range cases {
        got, ok := ParseBookingStatus(in)
        if !ok || got != want {
            t.Fatalf("ParseBookingStatus(%q) = %q, %v; want %q", in, got, ok, want)
        }
    }
    for _, in := range []string{"", "done", "in_progress", "canceled"} {
        if _, ok := ParseBookingStatus(in); ok {
            t.Fatalf("ParseBookingStatus(%q) accepted an unknown status", in)
        }
    }
}

func TestCanTransition(t *testing.T) {
    allowed := [][2]BookingStatus{
        {BookingPending, BookingAssigned},
        {BookingPending, BookingCancelled},
        {BookingAssigned, BookingAssigned},
        {BookingAssigned, BookingCompleted},
        {BookingAssigned, BookingCancelled},
    }
    for _, tr := range allowed {
        if !CanTransition(tr[0], tr[1]) {
            t.Fatalf("expected %s -> %s to be allowed", tr[0], tr[1])
        }
    }
    denied := [][2]BookingStatus{
        {BookingPending, BookingCompleted},
        {BookingPending, BookingPending},
        {BookingCompleted, BookingAssigned},
        {BookingCompleted, BookingCancelled},
        {BookingCancelled, BookingAssigned},
        {BookingAssigned, BookingPending},
    }
    for _, tr := range denied {
        if CanTransition(tr[0], tr[1]) {
            t.Fatalf("expected %s -> %s to be rejected", tr[0], tr[1])
        }
    }
}

func TestTerminal(t *testing.T) {
    if BookingPending.Terminal() || BookingAssigned.Terminal() {
        t.Fatal("pending and assigned must not be terminal")
    }
    if !BookingCompleted.Terminal() || !BookingCancelled.Terminal() {
        t.Fatal("completed and cancelled must be terminal")
    }
}

func TestParseRole(t *testing.T) {
    if r, ok := ParseRole(" Worker "); !ok || r != RoleWorker {
        t.Fatalf("ParseRole(worker) = %q, %v", r, ok)
    }
    if _, ok := ParseRole("OWNER"); ok {
        t.Fatal("expected unknown role to be rejected")
    }
}

func TestLookupService(t *testing.T) {
    s, ok := LookupService("Plumbing")
    if !ok || s.Name != "Plumbing" {
        t.Fatalf("LookupService(Plumbing) = %+v, %v", s, ok)
    }
    if _, ok := LookupService("astrology"); ok {
        t.Fatal("expected unknown service code to miss")
    }
    cat := Catalog()
    cat[0].Name = "changed"
    if Catalog()[0].Name == "changed" {
        t.Fatal("Catalog must return a copy")
    }
}

func TestRatingSummaryStarCounts(t *testing.T) {
    var s RatingSummary
    s.Counts[5] = 3
    s.Counts[1] = 1
    got := s.StarCounts()
    if len(got) != 5 || got[5] != 3 || got[1] != 1 || got[3] != 0 {
        t.Fatalf("StarCounts() = %v", got)
    }
}
