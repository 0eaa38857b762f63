package dal

import (
	"fmt"

	"github.com/google/uuid"
)

// genID mints a stable player/pick identifier. Player names are display
// data only; everything keys off these IDs.
func genID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
