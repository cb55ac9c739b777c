package archive

import "fmt"

// DiscreteKey builds the archive sample key of a discrete bottle:
// {descriptor}_{event:03d}_{bottle}
func DiscreteKey(descriptor string, event int, bottle int64) string {
	return fmt.Sprintf("%s_%03d_%d", descriptor, event, bottle)
}

// PlanktonKey builds the archive sample key of a plankton net haul:
// {descriptor}_{event:03d}_{bottle}_{gear}
func PlanktonKey(descriptor string, event int, bottle int64, gear int) string {
	return fmt.Sprintf("%s_%03d_%d_%d", descriptor, event, bottle, gear)
}
