package textgram

import "strings"

// Record is one extracted row, keyed by value name.
type Record map[string]string

// Parse scans the text line by line and returns every record the template
// emits. For each line the first matching rule wins; its captures merge into
// an accumulator. A Record rule emits the accumulated row (only when all
// Required values are present) and resets the accumulator, so a transaction
// split across a data line and a trailing date line still yields one record.
//
// Parsing has no side effects: running the same text through the same
// template twice yields identical results.
func (t *Template) Parse(text string) []Record {
	var records []Record

	acc := Record{}

	for _, line := range strings.Split(text, "\n") {
		for _, r := range t.rules {
			m := r.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			for i, name := range r.re.SubexpNames() {
				if name == "" || i >= len(m) || m[i] == "" {
					continue
				}

				acc[name] = m[i]
			}

			if r.record {
				if t.requiredSatisfied(acc) {
					records = append(records, copyRecord(acc))
				}

				acc = Record{}
			}

			break
		}
	}

	return records
}

func (t *Template) requiredSatisfied(acc Record) bool {
	for _, v := range t.values {
		if v.Required && acc[v.Name] == "" {
			return false
		}
	}

	return true
}

func copyRecord(acc Record) Record {
	out := make(Record, len(acc))
	for k, v := range acc {
		out[k] = v
	}

	return out
}
