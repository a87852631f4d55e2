package lineage

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

// Candidates keeps the birds of the given gender, dropping excludeID whatever
// its gender. Relative order is preserved.
func Candidates(birds []models.Bird, excludeID string, gender models.Gender) []models.Bird {
	out := make([]models.Bird, 0, len(birds))
	for _, b := range birds {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if b.Gender != gender {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Search narrows birds to those whose name or ring number contains query,
// ignoring case. An empty query returns birds unchanged.
func Search(birds []models.Bird, query string) []models.Bird {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return birds
	}
	out := make([]models.Bird, 0, len(birds))
	for _, b := range birds {
		if strings.Contains(strings.ToLower(b.Name), q) || strings.Contains(strings.ToLower(b.RingNumber), q) {
			out = append(out, b)
		}
	}
	return out
}

// RoleGender is the gender a parent in role must carry.
func RoleGender(role models.ParentRole) (models.Gender, error) {
	switch role {
	case models.RoleFather:
		return models.GenderMale, nil
	case models.RoleMother:
		return models.GenderFemale, nil
	}
	return "", models.Invalid("role", "expected FATHER or MOTHER, got %q", role)
}

// ParseRole accepts "father"/"mother" in any case.
func ParseRole(value string) (models.ParentRole, error) {
	role := models.ParentRole(strings.ToUpper(strings.TrimSpace(value)))
	if _, err := RoleGender(role); err != nil {
		return "", fmt.Errorf("parse parent role: %w", err)
	}
	return role, nil
}
