package model

// Service is an entry in the catalog of bookable work.  Code is what
// a booking stores in its work column; Name is the display text.
type Service struct {
    Code        string `json:"code"`
    Name        string `json:"name"`
    Description string `json:"description"`
}

var catalog = []Service{
    {Code: "plumbing", Name: "Plumbing", Description: "Leaks, pipe fitting, taps and bathroom fixtures"},
    {Code: "electrical", Name: "Electrical", Description: "Wiring, switches, sockets and lighting"},
    {Code: "carpentry", Name: "Carpentry", Description: "Furniture repair, doors and woodwork"},
    {Code: "painting", Name: "Painting", Description: "Interior and exterior wall painting"},
    {Code: "cleaning", Name: "Cleaning", Description: "Home and office deep cleaning"},
    {Code: "appliance-repair", Name: "Appliance Repair", Description: "Washing machines, fridges and other home appliances"},
    {Code: "ac-repair", Name: "AC Repair", Description: "Air conditioner servicing and gas refill"},
    {Code: "pest-control", Name: "Pest Control", Description: "Termite, cockroach and rodent treatment"},
}

// Catalog returns a copy of the service catalog in display order.
func Catalog() []Service {
    out := make([]Service, len(catalog))
    copy(out, catalog)
    return out
}

// LookupService finds a catalog entry by code.
func LookupService(code string) (Service, bool) {
    code = normalize(code)
    for _, s := range catalog {
        if s.Code == code {
            return s, true
        }
    }
    return Service{}, false
}
