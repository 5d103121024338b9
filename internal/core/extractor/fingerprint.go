package extractor

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// fingerprintFieldLimit caps how many field names per section feed the
// signature, so wide tables hash on their leading columns only.
const fingerprintFieldLimit = 10

// fingerprint hashes the document's structural skeleton: sorted sheet
// names, then each section's shape, label and leading field names in
// document order. Cell values never participate, so two files sharing a
// layout share a fingerprint regardless of their data.
//
// MD5 is used as a stable structural identity, not for security.
func fingerprint(sheets []domain.Sheet) string {
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	sort.Strings(names)

	parts := []string{"sheets:" + strings.Join(names, "|")}
	for _, sheet := range sheets {
		for i := range sheet.Sections {
			parts = append(parts, sectionParts(&sheet.Sections[i])...)
		}
	}

	sum := md5.Sum([]byte(strings.Join(parts, "||")))
	return hex.EncodeToString(sum[:])
}

// sectionParts renders one section's signature contribution.
// Key-value sections sort the full key set before truncating; tabular
// sections truncate to document order first. Raw sections contribute
// their shape line only.
func sectionParts(s *domain.Section) []string {
	parts := []string{"section:" + string(s.Type) + ":" + s.Header}

	switch s.Type {
	case domain.SectionKeyValue:
		keys := append([]string(nil), s.FieldNames()...)
		sort.Strings(keys)
		parts = append(parts, "keys:"+strings.Join(headOf(keys), "|"))
	case domain.SectionTable, domain.SectionComplexHeader:
		headers := append([]string(nil), headOf(s.FieldNames())...)
		sort.Strings(headers)
		parts = append(parts, "headers:"+strings.Join(headers, "|"))
	}

	return parts
}

func headOf(fields []string) []string {
	if len(fields) > fingerprintFieldLimit {
		return fields[:fingerprintFieldLimit]
	}
	return fields
}
