package domain

// Address is an immutable shipping address. It has no identity of its own;
// a copy is stored on each order at creation time.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zip_code"`
}

func NewAddress(street, city, state, country, zipCode string) Address {
	return Address{
		Street:  street,
		City:    city,
		State:   state,
		Country: country,
		ZipCode: zipCode,
	}
}
