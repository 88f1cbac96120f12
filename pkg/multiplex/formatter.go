// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package multiplex

import (
	"fmt"
	"strings"
)

// FormatFrame renders a frame into a human-readable multi-line string for
// log output. Unlike Parse it is tolerant: it renders request and reply
// subframes alike and annotates anything it cannot decode instead of
// failing.
func FormatFrame(f Frame, registry *Registry) string {
	var sb strings.Builder
	dir := ""
	if f.Query {
		dir = " query"
	}
	fmt.Fprintf(&sb, "id=%04X src=%d dst=%d%s len=%d\n", f.ArbitrationID(), f.Source, f.Dest, dir, len(f.Data))

	payload := f.Data
	i := 0
	for i < len(payload) {
		op := payload[i]
		i++
		switch {
		case op == opNop:
			// Padding; count a run rather than one line per byte.
			n := 1
			for i < len(payload) && payload[i] == opNop {
				i++
				n++
			}
			fmt.Fprintf(&sb, "  NOP x%d\n", n)

		case op == opWriteError || op == opReadError:
			kind := "READ_ERROR"
			if op == opWriteError {
				kind = "WRITE_ERROR"
			}
			reg, n, err := readVaruint(payload[i:])
			if err != nil {
				fmt.Fprintf(&sb, "  %s <truncated>\n", kind)
				return sb.String()
			}
			i += n
			code, n, err := readVaruint(payload[i:])
			if err != nil {
				fmt.Fprintf(&sb, "  %s %s <truncated>\n", kind, registry.Name(Register(reg)))
				return sb.String()
			}
			i += n
			fmt.Fprintf(&sb, "  %s %s code=%d\n", kind, registry.Name(Register(reg)), code)

		case op < opWriteError:
			kind := [3]string{"WRITE", "READ", "REPLY"}[op>>4]
			res := Resolution(op >> 2 & 0x3)
			count := int(op & 0x3)
			if count == 0 {
				c, n, err := readVaruint(payload[i:])
				if err != nil {
					fmt.Fprintf(&sb, "  %s_%s <truncated count>\n", kind, strings.ToUpper(res.String()))
					return sb.String()
				}
				count = int(c)
				i += n
			}
			start, n, err := readVaruint(payload[i:])
			if err != nil {
				fmt.Fprintf(&sb, "  %s_%s <truncated register>\n", kind, strings.ToUpper(res.String()))
				return sb.String()
			}
			i += n
			fmt.Fprintf(&sb, "  %s_%s x%d @%s", kind, strings.ToUpper(res.String()), count, registry.Name(Register(start)))
			if kind == "READ" {
				sb.WriteByte('\n')
				continue
			}
			width := res.Width()
			vals := make([]string, 0, count)
			for k := 0; k < count; k++ {
				if i+width > len(payload) {
					vals = append(vals, "<truncated>")
					i = len(payload)
					break
				}
				v, err := registry.Decode(Register(start+uint32(k)), res, payload[i:i+width])
				if err != nil {
					vals = append(vals, fmt.Sprintf("<% x>", payload[i:i+width]))
				} else {
					vals = append(vals, v.String())
				}
				i += width
			}
			fmt.Fprintf(&sb, " [%s]\n", strings.Join(vals, " "))

		default:
			fmt.Fprintf(&sb, "  <opcode 0x%02x: % x>\n", op, payload[i:])
			return sb.String()
		}
	}
	return sb.String()
}
