package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/inventory"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/besti-sekretariat/besti-backend-go/internal/fixtures"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// File is the JSON layout of SEED_FILE.
type File struct {
	People    []Person `json:"people" validate:"dive"`
	Inventory []Item   `json:"inventory" validate:"dive"`
}

type Person struct {
	Username    string `json:"username" validate:"required,max=50"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
	Division    string `json:"division" validate:"max=100"`
	Role        string `json:"role" validate:"omitempty,oneof=admin anggota"`
	// Password is hashed on load. Members without one cannot log in.
	Password string `json:"password" validate:"omitempty,min=8"`
}

type Item struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Code           *string `json:"code" validate:"omitempty,max=50"`
	QuantityOnHand int     `json:"quantity_on_hand" validate:"gte=0"`
	Status         string  `json:"status" validate:"omitempty,oneof=tersedia habis dipinjam rusak hilang"`
}

// Result counts what was inserted. Entries that already exist are skipped.
type Result struct {
	People    int
	Inventory int
}

func ReadFile(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := validator.Struct(&f); err != nil {
		return File{}, fmt.Errorf("invalid seed file: %w", err)
	}
	return f, nil
}

// Apply inserts the seed data. It is safe to run on every start. When the
// file lists no inventory and storage has none, the default equipment is
// inserted instead.
func Apply(ctx context.Context, f File, people person.Repository, items inventory.Repository, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var result Result

	for _, p := range f.People {
		member := person.Person{
			Username:    strings.ToLower(strings.TrimSpace(p.Username)),
			DisplayName: p.DisplayName,
			Division:    p.Division,
			Role:        person.RoleMember,
		}
		if p.Role != "" {
			member.Role = person.Role(p.Role)
		}
		if p.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
			if err != nil {
				return result, fmt.Errorf("failed to hash password for %s: %w", p.Username, err)
			}
			h := string(hash)
			member.PasswordHash = &h
		}

		if _, err := people.Create(ctx, member); err != nil {
			if errors.Is(err, person.ErrUsernameExists) {
				continue
			}
			return result, fmt.Errorf("failed to seed person %s: %w", p.Username, err)
		}
		result.People++
	}

	existing, err := items.ListAll(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list inventory: %w", err)
	}

	if len(f.Inventory) == 0 {
		if len(existing) == 0 {
			for _, item := range fixtures.GetDefaultInventory() {
				if _, err := items.Create(ctx, item); err != nil {
					if errors.Is(err, inventory.ErrItemCodeExists) {
						continue
					}
					return result, fmt.Errorf("failed to seed inventory item %s: %w", item.Name, err)
				}
				result.Inventory++
			}
		}
	}

	// Items without a code have nothing unique in storage, so they are
	// matched by name.
	names := make(map[string]bool, len(existing))
	for _, item := range existing {
		names[itemNameKey(item.Name)] = true
	}

	for _, it := range f.Inventory {
		code := it.Code
		if code != nil && strings.TrimSpace(*code) == "" {
			code = nil
		}
		if code == nil && names[itemNameKey(it.Name)] {
			continue
		}

		status := inventory.StatusAvailable
		if it.Status != "" {
			parsed, err := inventory.ParseItemStatus(it.Status)
			if err != nil {
				return result, err
			}
			status = parsed
		}

		_, err := items.Create(ctx, inventory.Item{
			Name:           it.Name,
			Code:           code,
			QuantityOnHand: it.QuantityOnHand,
			Status:         status,
		})
		if err != nil {
			if errors.Is(err, inventory.ErrItemCodeExists) {
				continue
			}
			return result, fmt.Errorf("failed to seed inventory item %s: %w", it.Name, err)
		}
		names[itemNameKey(it.Name)] = true
		result.Inventory++
	}

	logger.Info("seed applied", "people", result.People, "inventory", result.Inventory)
	return result, nil
}

func itemNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
