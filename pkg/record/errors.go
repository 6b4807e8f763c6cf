package record

import (
	"fmt"

	"github.com/recset/recset/pkg/util"
)

type ErrFieldNotFound = error

func NewFieldNotFoundError(key string, r Record) ErrFieldNotFound {
	return fmt.Errorf("no field %q in record %s", key, util.Stringify(r))
}

type ErrConversion = error

func NewConversionError(kind, content string) ErrConversion {
	return fmt.Errorf("cannot convert %q into a %s", content, kind)
}
