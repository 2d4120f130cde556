package schema

import (
	"reflect"
	"strconv"
	"strings"
)

// fieldTag is the parsed form of a `whoa:"..."` struct tag.
type fieldTag struct {
	name     string
	skip     bool
	order    int
	hasOrder bool
}

// parseTag resolves a field's diagnostic name and options.
// Priority for the name: whoa:"name=..." > json tag name > field name.
// whoa:"-" removes the field.
func parseTag(owner reflect.Type, sf reflect.StructField) (fieldTag, error) {
	ft := fieldTag{name: sf.Name}
	if jt := sf.Tag.Get("json"); jt != "" && jt != "-" {
		if i := strings.IndexByte(jt, ','); i >= 0 {
			jt = jt[:i]
		}
		if jt != "" {
			ft.name = jt
		}
	}
	wt, ok := sf.Tag.Lookup("whoa")
	if !ok {
		return ft, nil
	}
	if strings.TrimSpace(wt) == "-" {
		ft.skip = true
		return ft, nil
	}
	for _, p := range strings.Split(wt, ",") {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.HasPrefix(p, "name="):
			if n := strings.TrimPrefix(p, "name="); n != "" {
				ft.name = n
			}
		case strings.HasPrefix(p, "order="):
			n, err := strconv.Atoi(strings.TrimPrefix(p, "order="))
			if err != nil || n < 0 {
				return ft, &InvalidTagError{Owner: owner, Member: sf.Name, Reason: "order must be a non-negative integer"}
			}
			ft.order, ft.hasOrder = n, true
		default:
			return ft, &InvalidTagError{Owner: owner, Member: sf.Name, Reason: "unknown option " + strconv.Quote(p)}
		}
	}
	return ft, nil
}
