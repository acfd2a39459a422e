package fixtures

import "github.com/besti-sekretariat/besti-backend-go/internal/domain/inventory"

func strPtr(s string) *string { return &s }

// GetDefaultInventory returns the equipment every secretariat room starts
// with. It is seeded when a seed file lists no inventory of its own.
func GetDefaultInventory() []inventory.Item {
	return []inventory.Item{
		{Name: "Proyektor", Code: strPtr("SEK-PRJ-01"), QuantityOnHand: 1, Status: inventory.StatusAvailable},
		{Name: "Printer", Code: strPtr("SEK-PRN-01"), QuantityOnHand: 1, Status: inventory.StatusAvailable},
		{Name: "Laptop Sekretariat", Code: strPtr("SEK-LPT-01"), QuantityOnHand: 1, Status: inventory.StatusAvailable},
		{Name: "Kabel HDMI", Code: strPtr("SEK-HDM-01"), QuantityOnHand: 2, Status: inventory.StatusAvailable},
		{Name: "Stempel BESTI", Code: strPtr("SEK-STP-01"), QuantityOnHand: 1, Status: inventory.StatusAvailable},
		{Name: "Buku Tamu", Code: strPtr("SEK-BKT-01"), QuantityOnHand: 1, Status: inventory.StatusAvailable},
	}
}
