package identify

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	separatorRun = regexp.MustCompile(`[\s_\-.]+`)
	apostrophes  = strings.NewReplacer("'", "", "’", "", "‘", "", "`", "", "´", "")
)

// Normalize folds a layer name for matching: accents are stripped, case is
// folded, apostrophes are dropped and separator runs (whitespace, '_', '-',
// '.') collapse to a single '_'.
//
//	Normalize("Nascente ou Olho d'Água") == "nascente_ou_olho_dagua"
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	folded = strings.ToLower(folded)
	folded = apostrophes.Replace(folded)
	folded = separatorRun.ReplaceAllString(folded, "_")
	return strings.Trim(folded, "_")
}
