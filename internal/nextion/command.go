package nextion

import "strconv"

var terminator = []byte{0xFF, 0xFF, 0xFF}

// Frame returns cmd followed by the three-byte terminator.
func Frame(cmd string) []byte {
	b := make([]byte, 0, len(cmd)+len(terminator))
	b = append(b, cmd...)
	return append(b, terminator...)
}

// NumberCommand builds a numeric assignment: comp.val=v
func NumberCommand(comp string, v int) string {
	return comp + ".val=" + strconv.Itoa(v)
}

// TextCommand builds a text assignment: comp.txt="s"
func TextCommand(comp, s string) string {
	return comp + `.txt="` + s + `"`
}

// propertyCommand builds an assignment to an arbitrary numeric property.
func propertyCommand(comp, prop string, v int) string {
	return comp + "." + prop + "=" + strconv.Itoa(v)
}
