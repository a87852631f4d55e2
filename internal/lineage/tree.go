package lineage

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"slices"
	"strings"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

const (
	// Generations is how many ancestor generations are walked above the subject.
	Generations = 3
	// SlotCount is the subject plus 2 parents, 4 grandparents and 8 great-grandparents.
	SlotCount = 1<<(Generations+1) - 1
)

// Placeholders printed for slots without a known bird.
const (
	MarkerNotRecorded = "NOT RECORDED"
	MarkerExternal    = "EXTERNAL RECORD"
	MarkerCircular    = "CIRCULAR REFERENCE"
	MarkerNoRing      = "---"
)

// Slot is one position of the pedigree. Positions use Ahnentafel numbering:
// the subject is 1 and the parents of n are 2n (father) and 2n+1 (mother).
type Slot struct {
	Position   int
	Generation int
	Role       models.ParentRole
	State      State
	BirdID     string
	Name       string
	RingNumber string
}

// DisplayName is the upper-cased name, or the placeholder for the slot state.
func (s Slot) DisplayName() string {
	switch s.State {
	case StateKnown:
		return strings.ToUpper(s.Name)
	case StateExternal:
		return MarkerExternal
	case StateCircular:
		return MarkerCircular
	default:
		return MarkerNotRecorded
	}
}

// DisplayRing is the ring number, or a dash placeholder.
func (s Slot) DisplayRing() string {
	if s.State != StateKnown || s.RingNumber == "" {
		return MarkerNoRing
	}
	return s.RingNumber
}

// Label joins name and ring, e.g. "ZEUS / BR-2023-001".
func (s Slot) Label() string {
	if s.State != StateKnown {
		return s.DisplayName()
	}
	if s.RingNumber == "" {
		return s.DisplayName()
	}
	return s.DisplayName() + " / " + s.RingNumber
}

// MarshalJSON adds the rendered label next to the raw fields.
func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Position   int               `json:"position"`
		Generation int               `json:"generation"`
		Role       models.ParentRole `json:"role"`
		State      State             `json:"state"`
		BirdID     string            `json:"birdId,omitempty"`
		Name       string            `json:"name,omitempty"`
		RingNumber string            `json:"ringNumber,omitempty"`
		Label      string            `json:"label"`
	}{s.Position, s.Generation, s.Role, s.State, s.BirdID, s.Name, s.RingNumber, s.Label()})
}

// Tree is the fixed-shape pedigree of a subject bird.
type Tree struct {
	Subject models.Bird
	Slots   [SlotCount]Slot
}

// Slot returns the slot at an Ahnentafel position, or a zero Slot when out of range.
func (t Tree) Slot(position int) Slot {
	if position < 1 || position > SlotCount {
		return Slot{}
	}
	return t.Slots[position-1]
}

func (t Tree) Self() Slot   { return t.Slot(1) }
func (t Tree) Father() Slot { return t.Slot(2) }
func (t Tree) Mother() Slot { return t.Slot(3) }

// Generation returns the slots of generation g (0 = subject), left to right.
func (t Tree) Generation(g int) []Slot {
	if g < 0 || g > Generations {
		return nil
	}
	first := 1 << g
	return slices.Clone(t.Slots[first-1 : 2*first-1])
}

// Paternal returns the father and his ancestors, generation by generation.
func (t Tree) Paternal() []Slot { return t.branch(2) }

// Maternal returns the mother and her ancestors, generation by generation.
func (t Tree) Maternal() []Slot { return t.branch(3) }

func (t Tree) branch(root int) []Slot {
	var out []Slot
	for depth := 0; depth < Generations; depth++ {
		first := root << depth
		for p := first; p < first+(1<<depth); p++ {
			out = append(out, t.Slot(p))
		}
	}
	return out
}

// Known counts the ancestor slots that resolved to a bird.
func (t Tree) Known() int {
	n := 0
	for _, s := range t.Slots[1:] {
		if s.State == StateKnown {
			n++
		}
	}
	return n
}

// MarshalJSON renders the tree as its subject id and slot list.
func (t Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		BirdID string `json:"birdId"`
		Slots  []Slot `json:"slots"`
	}{t.Subject.ID, t.Slots[:]})
}

// Build resolves three generations of ancestors for subject against reg.
//
// Slots under an unresolved parent are padded with StateNotRecorded, so the
// tree always has SlotCount entries. A bird already present on the path from
// the subject to a slot is reported as StateCircular and not followed further.
// The stored role of a reference is trusted; genders are not cross-checked.
func Build(subject models.Bird, reg *Registry) (Tree, error) {
	if strings.TrimSpace(subject.ID) == "" {
		return Tree{}, fmt.Errorf("pedigree subject has no id: %w", models.ErrMalformedInput)
	}
	if strings.TrimSpace(subject.Name) == "" {
		return Tree{}, fmt.Errorf("pedigree subject %s has no name: %w", subject.ID, models.ErrMalformedInput)
	}

	t := Tree{Subject: subject}
	t.Slots[0] = Slot{
		Position:   1,
		Role:       models.RoleSelf,
		State:      StateKnown,
		BirdID:     subject.ID,
		Name:       subject.Name,
		RingNumber: subject.RingNumber,
	}

	// resolved[p] is the bird at position p; lines[p] are the ids from the subject up to p.
	var resolved [SlotCount + 1]*models.Bird
	var lines [SlotCount + 1][]string
	resolved[1] = &subject
	lines[1] = []string{subject.ID}

	for pos := 2; pos <= SlotCount; pos++ {
		slot := Slot{Position: pos, Generation: generationOf(pos), Role: roleOf(pos)}
		child := resolved[pos/2]
		if child == nil {
			t.Slots[pos-1] = slot
			continue
		}

		anc := reg.Resolve(child.ParentID(slot.Role))
		slot.State = anc.State
		slot.BirdID = anc.ID
		if anc.State == StateKnown {
			if slices.Contains(lines[pos/2], anc.ID) {
				slot.State = StateCircular
			} else {
				b := anc.Bird
				resolved[pos] = &b
				lines[pos] = append(slices.Clone(lines[pos/2]), anc.ID)
				slot.Name = b.Name
				slot.RingNumber = b.RingNumber
			}
		}
		t.Slots[pos-1] = slot
	}

	return t, nil
}

func generationOf(pos int) int {
	return bits.Len(uint(pos)) - 1
}

func roleOf(pos int) models.ParentRole {
	switch {
	case pos == 1:
		return models.RoleSelf
	case pos%2 == 0:
		return models.RoleFather
	default:
		return models.RoleMother
	}
}
