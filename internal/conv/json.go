package conv

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Convert copies in into the value pointed to by outPtr. Assignable values are
// set directly, anything else goes through a JSON round-trip so that
// map[string]interface{} events decode into tagged structs.
//
// A nil input leaves the destination untouched.
func Convert(in any, outPtr any) error {
	if outPtr == nil {
		return fmt.Errorf("conv.Convert: outPtr cannot be nil")
	}
	v := reflect.ValueOf(outPtr)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("conv.Convert: outPtr must be a non-nil pointer")
	}
	if in == nil {
		return nil
	}
	inVal := reflect.ValueOf(in)
	if inVal.Type().AssignableTo(v.Elem().Type()) {
		v.Elem().Set(inVal)
		return nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, outPtr)
}

// Indent renders v as indented JSON, falling back to fmt formatting when v
// cannot be marshalled.
func Indent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
