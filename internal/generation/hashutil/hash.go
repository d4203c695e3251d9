package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Hash canonicalizes v and returns the sha256 hex digest. Object keys are
// sorted recursively so logically identical inputs produce identical digests
// regardless of field order. A repeated reference (cycle) is rendered as a
// fixed placeholder instead of looping. Pure: no I/O, no side effects.
func Hash(v any) (string, error) {
	h := sha256.New()
	if err := writeCanonical(h, reflect.ValueOf(v), map[uintptr]bool{}); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

const cyclePlaceholder = `"<cycle>"`

func writeCanonical(w io.Writer, val reflect.Value, seen map[uintptr]bool) error {
	if !val.IsValid() {
		_, err := io.WriteString(w, "null")
		return err
	}

	switch val.Kind() {
	case reflect.Interface:
		if val.IsNil() {
			_, err := io.WriteString(w, "null")
			return err
		}
		return writeCanonical(w, val.Elem(), seen)

	case reflect.Pointer:
		if val.IsNil() {
			_, err := io.WriteString(w, "null")
			return err
		}
		ptr := val.Pointer()
		if seen[ptr] {
			_, err := io.WriteString(w, cyclePlaceholder)
			return err
		}
		seen[ptr] = true
		defer delete(seen, ptr)
		return writeCanonical(w, val.Elem(), seen)

	case reflect.Map:
		if val.IsNil() {
			_, err := io.WriteString(w, "null")
			return err
		}
		ptr := val.Pointer()
		if seen[ptr] {
			_, err := io.WriteString(w, cyclePlaceholder)
			return err
		}
		seen[ptr] = true
		defer delete(seen, ptr)

		keys := val.MapKeys()
		rendered := make([]string, 0, len(keys))
		byKey := make(map[string]reflect.Value, len(keys))
		for _, k := range keys {
			ks, err := renderMapKey(k)
			if err != nil {
				return err
			}
			rendered = append(rendered, ks)
			byKey[ks] = val.MapIndex(k)
		}
		sort.Strings(rendered)

		if _, err := io.WriteString(w, "{"); err != nil {
			return err
		}
		for i, ks := range rendered {
			if i > 0 {
				if _, err := io.WriteString(w, ","); err != nil {
					return err
				}
			}
			encoded, err := json.Marshal(ks)
			if err != nil {
				return err
			}
			if _, err := w.Write(encoded); err != nil {
				return err
			}
			if _, err := io.WriteString(w, ":"); err != nil {
				return err
			}
			if err := writeCanonical(w, byKey[ks], seen); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "}")
		return err

	case reflect.Slice:
		if val.IsNil() {
			_, err := io.WriteString(w, "null")
			return err
		}
		ptr := val.Pointer()
		if seen[ptr] {
			_, err := io.WriteString(w, cyclePlaceholder)
			return err
		}
		seen[ptr] = true
		defer delete(seen, ptr)
		return writeArray(w, val, seen)

	case reflect.Array:
		return writeArray(w, val, seen)

	case reflect.Struct:
		return writeStruct(w, val, seen)

	case reflect.String:
		encoded, err := json.Marshal(val.String())
		if err != nil {
			return err
		}
		_, err = w.Write(encoded)
		return err

	case reflect.Bool:
		_, err := io.WriteString(w, strconv.FormatBool(val.Bool()))
		return err

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		_, err := io.WriteString(w, strconv.FormatInt(val.Int(), 10))
		return err

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		_, err := io.WriteString(w, strconv.FormatUint(val.Uint(), 10))
		return err

	case reflect.Float32, reflect.Float64:
		_, err := io.WriteString(w, strconv.FormatFloat(val.Float(), 'g', -1, 64))
		return err

	default:
		return fmt.Errorf("unsupported kind %s", val.Kind())
	}
}

func writeArray(w io.Writer, val reflect.Value, seen map[uintptr]bool) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i := 0; i < val.Len(); i++ {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := writeCanonical(w, val.Index(i), seen); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}

func writeStruct(w io.Writer, val reflect.Value, seen map[uintptr]bool) error {
	t := val.Type()
	type fieldEntry struct {
		name  string
		value reflect.Value
	}
	fields := make([]fieldEntry, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			if tag == "-" {
				continue
			}
			if comma := strings.IndexByte(tag, ','); comma >= 0 {
				tag = tag[:comma]
			}
			if tag != "" {
				name = tag
			}
		}
		fields = append(fields, fieldEntry{name: name, value: val.Field(i)})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].name < fields[j].name })

	if _, err := io.WriteString(w, "{"); err != nil {
		return err
	}
	for i, f := range fields {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		encoded, err := json.Marshal(f.name)
		if err != nil {
			return err
		}
		if _, err := w.Write(encoded); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ":"); err != nil {
			return err
		}
		if err := writeCanonical(w, f.value, seen); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}")
	return err
}

func renderMapKey(k reflect.Value) (string, error) {
	for k.Kind() == reflect.Interface {
		k = k.Elem()
	}
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), nil
	default:
		return "", fmt.Errorf("unsupported map key kind %s", k.Kind())
	}
}
