package inventory

import (
	"fmt"
	"time"
)

type ItemStatus string

const (
	StatusAvailable ItemStatus = "tersedia"
	StatusDepleted  ItemStatus = "habis"
	StatusBorrowed  ItemStatus = "dipinjam"
	StatusDamaged   ItemStatus = "rusak"
	StatusLost      ItemStatus = "hilang"
)

var ItemStatusValues = []string{
	string(StatusAvailable),
	string(StatusDepleted),
	string(StatusBorrowed),
	string(StatusDamaged),
	string(StatusLost),
}

func ParseItemStatus(s string) (ItemStatus, error) {
	for _, v := range ItemStatusValues {
		if s == v {
			return ItemStatus(s), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidItemStatus, s)
}

// Item is a piece of secretariat equipment that duty members check each session.
type Item struct {
	ID             string
	Name           string
	Code           *string
	QuantityOnHand int
	Status         ItemStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
