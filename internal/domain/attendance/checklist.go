package attendance

import "github.com/besti-sekretariat/besti-backend-go/internal/domain/inventory"

// ChecklistSummary counts judged items per status.
type ChecklistSummary struct {
	Good    int `json:"good"`
	Damaged int `json:"damaged"`
	Lost    int `json:"lost"`
}

// BuildSnapshot copies the identity of every inventory item into a fresh
// checklist with no statuses set.
func BuildSnapshot(items []inventory.Item) []ChecklistEntry {
	checklist := make([]ChecklistEntry, 0, len(items))
	for _, item := range items {
		entry := ChecklistEntry{
			InventoryItemID: item.ID,
			Name:            item.Name,
		}
		if item.Code != nil {
			code := *item.Code
			entry.Code = &code
		}
		checklist = append(checklist, entry)
	}
	return checklist
}

// AllFilled reports whether every entry has a status.
func AllFilled(checklist []ChecklistEntry) bool {
	for _, entry := range checklist {
		if entry.Status == nil {
			return false
		}
	}
	return true
}

// MissingItems returns the names of entries without a status.
func MissingItems(checklist []ChecklistEntry) []string {
	var missing []string
	for _, entry := range checklist {
		if entry.Status == nil {
			missing = append(missing, entry.Name)
		}
	}
	return missing
}

func Summarize(checklist []ChecklistEntry) ChecklistSummary {
	var summary ChecklistSummary
	for _, entry := range checklist {
		if entry.Status == nil {
			continue
		}
		switch *entry.Status {
		case ChecklistGood:
			summary.Good++
		case ChecklistDamaged:
			summary.Damaged++
		case ChecklistLost:
			summary.Lost++
		}
	}
	return summary
}
