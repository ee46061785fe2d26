package fieldmap

import (
	"strconv"
	"strings"

	"github.com/endorses/seqfilter/internal/pkg/filtering"
	"github.com/endorses/seqfilter/internal/pkg/logger"
)

// Codec decodes and encodes flattened filter strings. Diagnostics about
// tokens it cannot place go to its logger; decoding never fails.
type Codec struct {
	log logger.Sink
}

// NewCodec returns a codec reporting to log, or to the default logger when
// log is nil.
func NewCodec(log logger.Sink) *Codec {
	if log == nil {
		log = logger.Get()
	}
	return &Codec{log: log}
}

// Decode decodes s with a codec on the default logger.
func Decode(s string) FieldMap {
	return NewCodec(nil).Decode(s)
}

// Encode encodes m with a codec on the default logger.
func Encode(m FieldMap) string {
	return NewCodec(nil).Encode(m)
}

// Decode splits a flattened filter string into its fields.
func (c *Codec) Decode(s string) FieldMap {
	m := FieldMap{}

	body, spec, hasRange := filtering.SplitLevelSpec(s)
	if hasRange && strings.TrimSpace(spec) != "" {
		r, err := filtering.ParseLevelSpec(spec)
		if err != nil {
			c.log.Warn("unparsable level range in filter string",
				"spec", spec,
				"error", err)
		}
		r = r.Ordered()
		m[KeyMinLevel] = strconv.Itoa(int(r.Min))
		m[KeyMaxLevel] = strconv.Itoa(int(r.Max))
	}

	tokens := strings.Split(body, ":")
	for i := 0; i < len(tokens); {
		name := tokens[i]
		if name == "" && i == len(tokens)-1 {
			break
		}

		switch {
		case name == wildcard:
			if i+1 < len(tokens) && IsField(tokens[i+1]) {
				i++
				continue
			}
			if i+1 < len(tokens) && !isTrailing(tokens, i+1) {
				c.log.Warn("discarding orphan token after wildcard",
					"token", tokens[i+1])
			}
			i += 2

		case name == FieldInfo:
			i = c.decodeInfo(tokens, i+1, m)

		case !IsField(name):
			c.log.Warn("unknown filter field",
				"field", name,
				"value", tokenAt(tokens, i+1))
			i += 2

		default:
			value := tokenAt(tokens, i+1)
			i += 2
			if name == FieldName && (value == "Door" || value == "Drop") && i < len(tokens) && !isTrailing(tokens, i) {
				value += ":" + tokens[i]
				i++
			}
			if value != "" {
				m[name] = value
			}
		}
	}

	return m
}

// decodeInfo walks the Info sub-chain starting at tokens[j] and returns the
// index of the first token it did not consume. The token that ends the chain
// is consumed.
func (c *Codec) decodeInfo(tokens []string, j int, m FieldMap) int {
	var pending string
	havePending := false

	for {
		var raw string
		if havePending {
			raw, havePending = pending, false
		} else {
			if j >= len(tokens) {
				return j
			}
			raw = tokens[j]
			j++
		}

		name := stripGap(raw)
		if !IsInfoField(name) {
			if raw != "" {
				c.log.Debug("info chain ended",
					"token", raw)
			}
			return j
		}
		if j >= len(tokens) {
			return j
		}

		value := strings.ReplaceAll(tokens[j], infoGap, " ")
		j++
		if k := strings.LastIndexByte(value, ' '); k >= 0 && IsInfoField(stripGap(value[k+1:])) {
			pending, havePending = value[k+1:], true
			value = value[:k]
		}
		if value = strings.TrimSpace(value); value != "" {
			m[InfoKey(name)] = value
		}
	}
}

// Encode renders m in fixed field order. Runs of absent fields between
// present ones collapse to a single wildcard.
func (c *Codec) Encode(m FieldMap) string {
	var sb strings.Builder
	started, gap := false, false

	for _, field := range Fields {
		var seg string
		if field == FieldInfo {
			seg = encodeInfo(m)
		} else if v := sanitize(field, m.Get(field)); v != "" {
			seg = field + ":" + v + ":"
		}

		if seg == "" {
			if started {
				gap = true
			}
			continue
		}
		if gap {
			sb.WriteString(wildcard + ":")
			gap = false
		}
		sb.WriteString(seg)
		started = true
	}

	if r, ok := c.levels(m); ok {
		sb.WriteByte(';')
		sb.WriteString(r.String())
	}
	return sb.String()
}

func (c *Codec) levels(m FieldMap) (filtering.LevelRange, bool) {
	minRaw, maxRaw := m.Get(KeyMinLevel), m.Get(KeyMaxLevel)
	if minRaw == "" && maxRaw == "" {
		return filtering.LevelRange{}, false
	}

	r := filtering.LevelRange{Max: filtering.MaxLevel}
	if minRaw != "" {
		if v, err := strconv.ParseUint(minRaw, 10, 8); err != nil {
			c.log.Warn("ignoring invalid minimum level",
				"value", minRaw,
				"error", err)
		} else {
			r.Min = uint8(v)
		}
	}
	if maxRaw != "" {
		if v, err := strconv.ParseUint(maxRaw, 10, 8); err != nil {
			c.log.Warn("ignoring invalid maximum level",
				"value", maxRaw,
				"error", err)
		} else {
			r.Max = uint8(v)
		}
	}
	return r.Ordered(), true
}

func encodeInfo(m FieldMap) string {
	var sb strings.Builder
	first, skipped := true, false

	for _, sub := range InfoFields {
		v := strings.TrimSpace(strings.ReplaceAll(m.Get(InfoKey(sub)), ":", ""))
		if v == "" {
			skipped = true
			continue
		}
		switch {
		case first && skipped:
			sb.WriteString(wildcard)
		case !first && skipped:
			sb.WriteString(infoGap)
		case !first:
			sb.WriteByte(' ')
		}
		sb.WriteString(sub + ":" + v)
		first, skipped = false, false
	}

	if first {
		return ""
	}
	return FieldInfo + ":" + sb.String() + ":"
}

func sanitize(field, v string) string {
	switch field {
	case FieldName:
		return v
	case FieldSpawn:
		return strings.ReplaceAll(v, ":", ".")
	default:
		return strings.TrimSpace(strings.ReplaceAll(v, ":", ""))
	}
}

func stripGap(raw string) string {
	raw = strings.ReplaceAll(raw, infoGap, "")
	raw = strings.ReplaceAll(raw, wildcard, "")
	return strings.TrimSpace(raw)
}

func tokenAt(tokens []string, i int) string {
	if i < len(tokens) {
		return tokens[i]
	}
	return ""
}

func isTrailing(tokens []string, i int) bool {
	return i == len(tokens)-1 && tokens[i] == ""
}
