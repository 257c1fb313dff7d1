package assets

import (
	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
)

// LayoutFor picks the gallery arrangement for a case declaring imageCount
// images. Counts below one are treated as one; counts above four only show
// the first four views.
func LayoutFor(imageCount int) entities.CaseLayout {
	switch {
	case imageCount <= 1:
		return entities.CaseLayout{
			Kind:  entities.LayoutSingle,
			Slots: slots(entities.SlotLarge),
		}
	case imageCount == 2:
		return entities.CaseLayout{
			Kind:  entities.LayoutBeforeAfter,
			Slots: slots(entities.SlotLarge, entities.SlotLarge),
		}
	case imageCount == 3:
		return entities.CaseLayout{
			Kind:  entities.LayoutTwoPlusOne,
			Slots: slots(entities.SlotLarge, entities.SlotLarge, entities.SlotSmall),
		}
	default:
		return entities.CaseLayout{
			Kind:  entities.LayoutTwoPlusTwo,
			Slots: slots(entities.SlotLarge, entities.SlotLarge, entities.SlotSmall, entities.SlotSmall),
		}
	}
}

func slots(sizes ...entities.SlotSize) []entities.CaseImageSlot {
	out := make([]entities.CaseImageSlot, len(sizes))
	for i, size := range sizes {
		out[i] = entities.CaseImageSlot{Index: i + 1, Size: size}
	}
	return out
}

// CountSlots returns how many slots of the given size a layout has.
func CountSlots(layout entities.CaseLayout, size entities.SlotSize) int {
	n := 0
	for _, s := range layout.Slots {
		if s.Size == size {
			n++
		}
	}
	return n
}
