package repo

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

func newID() string {
	return strings.ToLower(ulid.Make().String())
}
